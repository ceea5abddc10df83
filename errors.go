package verdict

import (
	"errors"
	"fmt"
)

// ConfigError represents a misuse of the engine detected before or
// during comparison: incompatible data/requirement shapes, a difference
// used as a requirement, or a malformed acceptance declaration.
//
// Configuration errors are disjoint from validation failures. They are
// never placed into a Collection and never intercepted or suppressed by
// an acceptance guard.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeShapeMismatch indicates the requirement shape is not
	// structurally compatible with the data shape.
	ErrCodeShapeMismatch ConfigErrorCode = "SHAPE_MISMATCH"

	// ErrCodeBadRequirement indicates a requirement value that cannot
	// compile to a matching strategy.
	ErrCodeBadRequirement ConfigErrorCode = "BAD_REQUIREMENT"

	// ErrCodeBadAcceptance indicates a malformed acceptance declaration.
	ErrCodeBadAcceptance ConfigErrorCode = "BAD_ACCEPTANCE"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newConfigError(code ConfigErrorCode, message string) *ConfigError {
	return &ConfigError{Code: code, Message: message}
}

// IsConfigError reports whether err is a configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsShapeMismatch reports whether err is a shape-compatibility error.
func IsShapeMismatch(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeShapeMismatch
	}
	return false
}
