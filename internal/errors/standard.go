// Package errors provides standardized error values for the script runtime
// and its tooling.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryArithmetic ErrorCategory = "ARITHMETIC"
	CategoryRuntime    ErrorCategory = "RUNTIME"
	CategoryDecode     ErrorCategory = "DECODE"
	CategoryConfig     ErrorCategory = "CONFIG"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Is matches another StandardError with the same category and code, so
// callers can compare against the sentinel-style constructors below.
func (e *StandardError) Is(target error) bool {
	var other *StandardError
	if !stderrors.As(target, &other) {
		return false
	}
	return e.Category == other.Category && e.Code == other.Code
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(1)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// HasCode reports whether err wraps a StandardError with the given code.
func HasCode(err error, code string) bool {
	var se *StandardError
	return stderrors.As(err, &se) && se.Code == code
}

// Common error constructors
func DivisionByZero(operation string) *StandardError {
	return NewStandardError(CategoryArithmetic, "DIVISION_BY_ZERO",
		fmt.Sprintf("Division by zero in %s operation", operation),
		map[string]interface{}{"operation": operation})
}

func UndefinedOperator(operator, lhs, rhs string) *StandardError {
	return NewStandardError(CategoryArithmetic, "UNDEFINED_OPERATOR",
		fmt.Sprintf("Operator %s is not defined for %s and %s", operator, lhs, rhs),
		map[string]interface{}{"operator": operator, "lhs": lhs, "rhs": rhs})
}

func BadConversion(from, to string) *StandardError {
	return NewStandardError(CategoryArithmetic, "BAD_CONVERSION",
		fmt.Sprintf("Cannot convert %s to %s", from, to),
		map[string]interface{}{"from": from, "to": to})
}

func UndefinedVariable(name string) *StandardError {
	return NewStandardError(CategoryRuntime, "UNDEFINED_VARIABLE",
		fmt.Sprintf("Can not find object: %s", name),
		map[string]interface{}{"name": name})
}

func Redeclared(name string) *StandardError {
	return NewStandardError(CategoryRuntime, "REDECLARED",
		fmt.Sprintf("Variable redefined '%s'", name),
		map[string]interface{}{"name": name})
}

func TypeMismatch(expected, got string) *StandardError {
	return NewStandardError(CategoryRuntime, "TYPE_MISMATCH",
		fmt.Sprintf("Expected %s, got %s", expected, got),
		map[string]interface{}{"expected": expected, "got": got})
}

func NotCallable(what string) *StandardError {
	return NewStandardError(CategoryRuntime, "NOT_CALLABLE",
		fmt.Sprintf("%s is not a function", what),
		map[string]interface{}{"value": what})
}

func ArityMismatch(name string, want, got int) *StandardError {
	return NewStandardError(CategoryRuntime, "ARITY_MISMATCH",
		fmt.Sprintf("Function %s expects %d arguments, got %d", name, want, got),
		map[string]interface{}{"function": name, "want": want, "got": got})
}

func MalformedTree(details string) *StandardError {
	return NewStandardError(CategoryDecode, "MALFORMED_TREE",
		fmt.Sprintf("Malformed syntax tree: %s", details),
		map[string]interface{}{"details": details})
}

func InvalidConfig(field, details string) *StandardError {
	return NewStandardError(CategoryConfig, "INVALID_CONFIG",
		fmt.Sprintf("Invalid configuration %s: %s", field, details),
		map[string]interface{}{"field": field, "details": details})
}
