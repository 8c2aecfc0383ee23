package task

import "errors"

// Errors returned by graph resolution and intent reduction.
var (
	ErrCycle         = errors.New("dependency cycle detected")
	ErrUnknownIntent = errors.New("unknown intent")
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidTask   = errors.New("invalid task")
)
