package renderer

import "fmt"

// DrawError is a backend failure during a frame. It is fatal: the loop
// stops and reports it.
type DrawError struct {
	Frame uint64
	Err   error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("draw frame %d: %v", e.Frame, e.Err)
}

func (e *DrawError) Unwrap() error { return e.Err }
