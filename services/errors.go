package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMargin    = errors.New("margin percent must be below 100")
	ErrUnknownUtility   = errors.New("unknown utility type")
	ErrUnknownCategory  = errors.New("unknown utility category")
	ErrUnknownReference = errors.New("unknown catalog reference")
	ErrUnknownItem      = errors.New("line item not found")
	ErrValidation       = errors.New("validation failed")
	ErrTemplateNotFound = errors.New("template file not found")
	ErrFormulaCell      = errors.New("refusing to write formula cell")
)

// ConfigError reports a pricing setting that cannot drive a margin formula.
type ConfigError struct {
	Field string
	Value float64
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s = %g: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TemplateError reports a failure opening, filling or serialising a utility
// template. Utility and Path identify which export failed.
type TemplateError struct {
	Utility UtilityType
	Path    string
	Err     error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("utility template %s (%s): %v", e.Utility, e.Path, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }
