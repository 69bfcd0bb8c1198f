package panel

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/chewxy/math32"

	"realistic-render/logx"
)

type kind int

const (
	kindFloat kind = iota
	kindEnum
)

type control struct {
	name     string
	kind     kind
	rng      Range
	options  []string
	getFloat func() float32
	setFloat func(float32)
	getEnum  func() string
	setEnum  func(string)
	onChange []func()
}

func (c *control) Name() string { return c.name }

func (c *control) OnChange(fn func()) Control {
	c.onChange = append(c.onChange, fn)
	return c
}

func (c *control) changed() {
	for _, fn := range c.onChange {
		fn()
	}
}

// Registry records controls and applies values to them the way a GUI would.
// Not safe for concurrent use.
type Registry struct {
	controls map[string]*control
	order    []string
	log      *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{controls: map[string]*control{}, log: logx.Or(logger)}
}

func (r *Registry) add(c *control) *control {
	if _, ok := r.controls[c.name]; !ok {
		r.order = append(r.order, c.name)
	}
	r.controls[c.name] = c
	return c
}

func (r *Registry) AddFloat(name string, get func() float32, set func(float32), rng Range) Control {
	return r.add(&control{name: name, kind: kindFloat, rng: rng, getFloat: get, setFloat: set})
}

func (r *Registry) AddEnum(name string, options []string, get func() string, set func(string)) Control {
	return r.add(&control{name: name, kind: kindEnum, options: slices.Clone(options), getEnum: get, setEnum: set})
}

// Names lists controls in registration order.
func (r *Registry) Names() []string { return slices.Clone(r.order) }

func (r *Registry) lookup(name string, k kind) (*control, error) {
	c, ok := r.controls[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownControl, name)
	}
	if c.kind != k {
		return nil, fmt.Errorf("%w: %q", ErrWrongKind, name)
	}
	return c, nil
}

// Set clamps and snaps v, then calls the control's setter and change
// callbacks. It returns the value actually applied.
func (r *Registry) Set(name string, v float32) (float32, error) {
	c, err := r.lookup(name, kindFloat)
	if err != nil {
		return 0, err
	}
	v = c.rng.apply(v)
	c.setFloat(v)
	c.changed()
	r.log.Debug("panel control changed", "control", name, "value", v)
	return v, nil
}

// Select picks an enum option by label.
func (r *Registry) Select(name, label string) error {
	c, err := r.lookup(name, kindEnum)
	if err != nil {
		return err
	}
	if !slices.Contains(c.options, label) {
		return fmt.Errorf("%w: %q for %q", ErrUnknownOption, label, name)
	}
	c.setEnum(label)
	c.changed()
	r.log.Debug("panel control changed", "control", name, "value", label)
	return nil
}

// Float reads a float control through its getter.
func (r *Registry) Float(name string) (float32, error) {
	c, err := r.lookup(name, kindFloat)
	if err != nil {
		return 0, err
	}
	return c.getFloat(), nil
}

// Enum reads an enum control through its getter.
func (r *Registry) Enum(name string) (string, error) {
	c, err := r.lookup(name, kindEnum)
	if err != nil {
		return "", err
	}
	return c.getEnum(), nil
}

func (rg Range) apply(v float32) float32 {
	if math32.IsNaN(v) {
		v = rg.Min
	}
	v = math32.Max(rg.Min, math32.Min(rg.Max, v))
	if rg.Step > 0 {
		v = rg.Min + math32.Round((v-rg.Min)/rg.Step)*rg.Step
		v = math32.Max(rg.Min, math32.Min(rg.Max, v))
	}
	return v
}
