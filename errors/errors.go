package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// Errorf is Errorf re-exported from github.com/pkg/errors, so every error carries a stack
var Errorf = errors.Errorf

// Wrapf is re-exported from github.com/pkg/errors
var Wrapf = errors.Wrapf

// Cause is re-exported from github.com/pkg/errors
var Cause = errors.Cause

// Is is re-exported from the standard library
var Is = stderrors.Is

// As is re-exported from the standard library
var As = stderrors.As

// SchemaError reports an expected column or key that is missing or malformed in the input.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string { return "schema error: " + e.Err.Error() }

// Unwrap returns the underlying error
func (e *SchemaError) Unwrap() error { return e.Err }

// ConfigError reports an invalid run parameter, such as more folds than raters.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "config error: " + e.Err.Error() }

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error { return e.Err }

// TrainingError reports a classifier fit or score call that failed.
type TrainingError struct {
	Err error
}

func (e *TrainingError) Error() string { return "training error: " + e.Err.Error() }

// Unwrap returns the underlying error
func (e *TrainingError) Unwrap() error { return e.Err }

// Schemaf builds a SchemaError
func Schemaf(format string, args ...interface{}) error {
	return &SchemaError{Err: errors.Errorf(format, args...)}
}

// Configf builds a ConfigError
func Configf(format string, args ...interface{}) error {
	return &ConfigError{Err: errors.Errorf(format, args...)}
}

// Trainingf builds a TrainingError
func Trainingf(format string, args ...interface{}) error {
	return &TrainingError{Err: errors.Errorf(format, args...)}
}

// WrapTraining wraps err in a TrainingError with a message. It returns nil if err is nil.
func WrapTraining(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &TrainingError{Err: errors.WithMessage(err, fmt.Sprintf(format, args...))}
}

// IsSchema reports whether err is, or wraps, a SchemaError
func IsSchema(err error) bool {
	var e *SchemaError
	return As(err, &e)
}

// IsConfig reports whether err is, or wraps, a ConfigError
func IsConfig(err error) bool {
	var e *ConfigError
	return As(err, &e)
}

// IsTraining reports whether err is, or wraps, a TrainingError
func IsTraining(err error) bool {
	var e *TrainingError
	return As(err, &e)
}
