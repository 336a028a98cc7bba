package ioc

import (
	"fmt"
	"strings"
)

// StateError represents an operation invoked in a state that forbids it.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed while container is %s", e.Op, e.State)
}

// ConfigurationError represents an invalid dependency declaration.
type ConfigurationError struct {
	Dependant string
	Provider  string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid dependency %s -> %s: %s", e.Provider, e.Dependant, e.Reason)
}

// CycleError represents one or more dependency cycles among singletons.
// Every elementary cycle is listed, each starting at its lowest-indexed id.
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	if len(e.Cycles) == 0 {
		return "dependency cycle detected"
	}
	first := append(append([]string{}, e.Cycles[0]...), e.Cycles[0][0])
	msg := fmt.Sprintf("dependency cycle detected: %s", strings.Join(first, " -> "))
	if n := len(e.Cycles); n > 1 {
		msg += fmt.Sprintf(" (and %d more)", n-1)
	}
	return msg
}

// LookupError represents a lookup of an id with no registered definition.
type LookupError struct {
	ID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no definition registered for id: %s", e.ID)
}

// InitializationError represents a builder or initializer failure.
type InitializationError struct {
	ID  string
	Err error
}

func (e *InitializationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("initializer failed: %v", e.Err)
	}
	return fmt.Sprintf("initialization failed for id %s: %v", e.ID, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// CircularResolutionError is returned when a builder looks up an id that is
// already being constructed on the same goroutine.
type CircularResolutionError struct {
	Chain []string
}

func (e *CircularResolutionError) Error() string {
	return fmt.Sprintf("circular resolution detected: %s", strings.Join(e.Chain, " -> "))
}

// PropertyNotFoundError represents a missing property.
type PropertyNotFoundError struct {
	Name string
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("property not found: %s", e.Name)
}

// NilBuilderError represents an attempt to register a nil builder.
type NilBuilderError struct {
	ID string
}

func (e *NilBuilderError) Error() string {
	return fmt.Sprintf("nil builder provided for id: %s", e.ID)
}

// TypeMismatchError represents a type assertion failure in Get.
type TypeMismatchError struct {
	ID       string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for id %s: expected %s, got %s", e.ID, e.Expected, e.Got)
}

// panicError carries a recovered panic value.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Unwrap() error {
	err, _ := e.value.(error)
	return err
}
