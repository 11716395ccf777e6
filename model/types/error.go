package types

import "fmt"

// PanicError carries a value recovered from a panicking producer or consumer.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// NewPanicError wraps a recovered value together with the goroutine stack.
func NewPanicError(value any, stack []byte) error {
	if err, ok := value.(error); ok {
		return &PanicError{Value: err, Stack: stack}
	}
	return &PanicError{Value: value, Stack: stack}
}
