// Package util provides shared utility functions.
package util

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

const (
	// IDLength is the length of a generated task ID (8 hex chars).
	IDLength = 8
	// MaxAmbiguousCandidates is the max number of candidates to show in ambiguous error.
	MaxAmbiguousCandidates = 5
)

// Errors returned by ID resolution functions.
var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// NewID returns a short random task ID derived from a UUIDv4.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:IDLength]
}

// ShortID returns a shortened version of an ID.
// If n is 0 or negative, IDLength is used.
func ShortID(id string, n int) string {
	if n <= 0 {
		n = IDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// ResolveID resolves an ID or unique prefix against the known ids.
//
// Resolution rules:
//  1. An exact match wins.
//  2. If idOrPrefix matches exactly one id prefix, return that ID.
//  3. If multiple matches, return ErrAmbiguousID with candidates.
//  4. If no matches, return ErrNotFound.
func ResolveID(ids []string, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("task ID: %w", ErrNotFound)
	}
	if slices.Contains(ids, idOrPrefix) {
		return idOrPrefix, nil
	}

	var candidates []string
	for _, id := range ids {
		if strings.HasPrefix(id, idOrPrefix) {
			candidates = append(candidates, id)
		}
	}
	slices.Sort(candidates)

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("task with prefix %q: %w", idOrPrefix, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		shown := candidates
		if len(shown) > MaxAmbiguousCandidates {
			shown = shown[:MaxAmbiguousCandidates]
		}
		return "", fmt.Errorf("%w: prefix %q matches %d tasks: %v",
			ErrAmbiguousID, idOrPrefix, len(candidates), shown)
	}
}
