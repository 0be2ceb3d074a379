package config

import (
	"errors"
	"fmt"
)

var ErrInvalidProject = errors.New("invalid project")

// 検証エラー (全ての項目のエラーを保持する)
type ValidationError struct {
	Entity string
	Errors []string
}

func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity, Errors: make([]string, 0)}
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// errors.Is(err, ErrInvalidProject) で判定できるようにする。
func (e *ValidationError) Unwrap() error { return ErrInvalidProject }

func (e *ValidationError) AddError(format string, v ...interface{}) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, v...))
}

func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }
