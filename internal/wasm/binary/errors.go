// Package binary implements the WebAssembly binary format: decoding a byte
// stream into an internal/wasm.Module and encoding it back (spec.md §4.3
// "Binary format", §4.4 invariant 1 "round trip").
package binary

import "fmt"

// SyntaxError reports a malformed binary that never reaches the validator
// (spec.md §7: SyntaxError/ValidationError/Trap are disjoint).
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed binary at offset %d: %s", e.Offset, e.Reason)
}

func synErr(offset int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
