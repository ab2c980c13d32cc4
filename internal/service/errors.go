package service

import (
	"errors"

	"pothole-service/internal/workflow"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")

	// Transition failures keep the workflow sentinels so errors.Is matches
	// across layers.
	ErrIllegalTransition = workflow.ErrIllegalTransition
	ErrTerminalState     = workflow.ErrTerminalState
)
