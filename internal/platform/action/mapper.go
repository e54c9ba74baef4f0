package action

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Mapper provides "dynamic" injection of actions in services.
// A service names the steps it needs performed on its records, provides a default
// implementation for each, and lets tests swap a named step out without having to
// set up everything the default needs.
type Mapper struct {
	actions map[string]any
}

func (m *Mapper) Add(name string, fn any) *Mapper {
	if m.actions == nil {
		m.actions = make(map[string]any)
	}

	m.actions[name] = fn

	return m
}

func (m *Mapper) Get(name string) (any, error) {
	v, ok := m.actions[name]
	if !ok {
		return nil, errors.New("no action found for: " + name)
	}

	return v, nil
}

// Merge copies every action from o into m, replacing actions with the same name.
func (m *Mapper) Merge(o *Mapper) *Mapper {
	if o == nil {
		return m
	}

	for name, fn := range o.actions {
		m.Add(name, fn)
	}

	return m
}

func (m *Mapper) All() []string {
	return slices.Sorted(maps.Keys(m.actions))
}

// Lookup gets the named action and asserts it's of the type T.
func Lookup[T any](m *Mapper, name string) (T, error) {
	var zero T

	v, err := m.Get(name)
	if err != nil {
		return zero, err
	}

	fn, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("action %q is a %T, not a %T", name, v, zero)
	}

	return fn, nil
}
