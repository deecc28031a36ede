package types

import (
	"errors"
	"fmt"
)

var (
	ErrProjectsDirNotFound = errors.New("claude projects directory not found")
	ErrNoEntries           = errors.New("no log entries found")
	ErrNoThreads           = errors.New("no user messages found")
	ErrInvalidFormat       = errors.New("invalid format")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// ConfigurationError reports that the log root could not be used at all.
// It is the only fatal error the record store returns.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("cannot use log directory %s: %v", e.Path, e.Err)
}

func (e ConfigurationError) Unwrap() error {
	return e.Err
}

// FileReadError is recovered by the loader: the file is skipped with a warning.
type FileReadError struct {
	Path string
	Err  error
}

func (e FileReadError) Error() string {
	return fmt.Sprintf("could not read log file %s: %v", e.Path, e.Err)
}

func (e FileReadError) Unwrap() error {
	return e.Err
}

// RecordParseError is recovered by the loader: the line is skipped.
type RecordParseError struct {
	Path string
	Line int
	Err  error
}

func (e RecordParseError) Error() string {
	return fmt.Sprintf("parse error in %s at line %d: %v", e.Path, e.Line, e.Err)
}

func (e RecordParseError) Unwrap() error {
	return e.Err
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in field %s: %s", e.Field, e.Message)
}
