package main

import (
	"errors"
	"fmt"

	"github.com/nconklindev/kouken/internal/dataset"
	"github.com/nconklindev/kouken/internal/extractor"
	"github.com/nconklindev/kouken/internal/generator"
)

// Exit codes for the kouken CLI.
const (
	ExitOK          = 0 // Page written.
	ExitInvalidArgs = 1 // Invalid flags or config.
	ExitInputError  = 2 // Input unreadable or missing required columns; nothing written.
	ExitWriteError  = 3 // Page could not be written.
)

type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}

// classify maps a generator error to an exit code.
func classify(err error) *exitCodeError {
	var missing *dataset.MissingColumnsError
	switch {
	case errors.As(err, &missing),
		errors.Is(err, extractor.ErrEmptyFile),
		errors.Is(err, extractor.ErrNoHeader),
		errors.Is(err, generator.ErrReadInput):
		return exitError(ExitInputError, "kouken: %v", err)
	default:
		return exitError(ExitWriteError, "kouken: %v", err)
	}
}
