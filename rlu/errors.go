package rlu

import "fmt"

// fatalError marks programmer errors or exhausted compile-time
// capacities: nested reader sections,
// unlock without a matching lock, a write log or free list overflowing
// its fixed capacity, and thread registration past MaxThreads. None of
// these are recoverable by retrying; callers that wrap the runtime in a
// recover() can still distinguish this family of panic with errors.As.
type fatalError struct {
	op  string
	msg string
}

func (e *fatalError) Error() string {
	return fmt.Sprintf("rlu: %s: %s", e.op, e.msg)
}

func fatalf(op, format string, args ...any) {
	panic(&fatalError{op: op, msg: fmt.Sprintf(format, args...)})
}
