package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownUser = errors.New("unknown user")
	ErrUnknownItem = errors.New("unknown item")
)

// ConfigError reports an invalid call parameter. Values are never clamped.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// RequirePositive returns a ConfigError unless v > 0.
func RequirePositive(field string, v int) error {
	if v <= 0 {
		return &ConfigError{Field: field, Value: v, Reason: "must be positive"}
	}
	return nil
}
