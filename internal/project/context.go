// Package project finds the TaskTree project that the current directory
// belongs to.
//
// Detection walks up from the start directory:
//  1. A .tasktree directory marks the project root and stops the walk.
//  2. A .git directory marks the repository boundary; the walk does not
//     continue past it.
//  3. With neither, the start directory is used.
package project

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// MarkerType represents the type of project marker that was detected.
type MarkerType int

const (
	// MarkerNone indicates no project marker was found.
	MarkerNone MarkerType = iota

	// MarkerTaskTree indicates a .tasktree directory was found.
	MarkerTaskTree

	// MarkerGit indicates a .git directory was found.
	MarkerGit
)

// String returns a human-readable name for the marker type.
func (m MarkerType) String() string {
	switch m {
	case MarkerNone:
		return "none"
	case MarkerTaskTree:
		return DirName
	case MarkerGit:
		return ".git"
	default:
		return "unknown"
	}
}

// Context describes the detected project boundary.
type Context struct {
	// RootPath is the absolute path of the directory holding the project dir.
	RootPath string

	// MarkerType indicates which marker identified RootPath.
	MarkerType MarkerType

	// GitRoot is the nearest enclosing repository root, or empty.
	GitRoot string
}

// ProjectDir returns the .tasktree directory under RootPath.
func (c *Context) ProjectDir() string {
	return filepath.Join(c.RootPath, DirName)
}

// HasProjectDir returns true if RootPath already has a .tasktree directory.
func (c *Context) HasProjectDir() bool {
	return c.MarkerType == MarkerTaskTree
}

// Detector defines the interface for project detection.
// This abstraction allows for easy testing with mock filesystems.
type Detector interface {
	// Detect finds the project root starting from the given path.
	Detect(startPath string) (*Context, error)
}

// detector implements Detector using an afero filesystem.
type detector struct {
	fs afero.Fs
}

// NewDetector creates a new Detector using the provided filesystem.
// Use afero.NewOsFs() for real filesystem operations,
// or afero.NewMemMapFs() for testing.
func NewDetector(fs afero.Fs) Detector {
	return &detector{fs: fs}
}

// NewOsDetector creates a Detector using the real operating system filesystem.
func NewOsDetector() Detector {
	return NewDetector(afero.NewOsFs())
}

// Detect is a convenience function that detects the project root from the given path
// using the real operating system filesystem.
func Detect(startPath string) (*Context, error) {
	return NewOsDetector().Detect(startPath)
}
