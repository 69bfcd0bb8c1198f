// Package panel binds scene tunables to debug controls. The GUI itself is
// an external collaborator behind the Panel interface; Registry is the
// in-process implementation, driven by tests and by the tweak file watcher.
package panel

import "errors"

var (
	ErrUnknownControl = errors.New("unknown control")
	ErrWrongKind      = errors.New("control kind mismatch")
	ErrUnknownOption  = errors.New("unknown option")
)

// Range bounds a float control. Values are clamped to [Min, Max] and
// snapped to multiples of Step from Min. Step 0 disables snapping.
type Range struct {
	Min, Max, Step float32
}

// Control is a registered control.
type Control interface {
	Name() string
	// OnChange registers fn to run after the setter on every user change.
	OnChange(fn func()) Control
}

// Panel registers controls.
type Panel interface {
	AddFloat(name string, get func() float32, set func(float32), r Range) Control
	AddEnum(name string, options []string, get func() string, set func(string)) Control
}
