// Package scope provides the nested name lookup structure shared by the
// type checker and the code generator.
package scope

import "errors"

var (
	// ErrEmpty is returned when exiting a scope that was never entered.
	ErrEmpty = errors.New("invalid scope exit: empty environment")
	// ErrNoFrame is returned when binding a name with no scope entered.
	ErrNoFrame = errors.New("invalid env add: no available scopes")
)

// Stack is an ordered stack of flat frames. Lookups search the frames
// from the innermost outwards. The zero value is an empty stack.
type Stack[K comparable, V any] struct {
	frames []frame[K, V]
}

type frame[K comparable, V any] struct {
	values map[K]V
	order  []K
}

// New creates an empty stack.
func New[K comparable, V any]() *Stack[K, V] {
	return &Stack[K, V]{}
}

// Enter pushes a fresh empty frame.
func (s *Stack[K, V]) Enter() {
	s.frames = append(s.frames, frame[K, V]{values: make(map[K]V)})
}

// Exit pops the innermost frame.
func (s *Stack[K, V]) Exit() error {
	if len(s.frames) == 0 {
		return ErrEmpty
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// MustExit pops the innermost frame and panics on an unbalanced exit.
func (s *Stack[K, V]) MustExit() {
	if err := s.Exit(); err != nil {
		panic(err)
	}
}

// Add binds key in the innermost frame, replacing any binding of key in
// that same frame.
func (s *Stack[K, V]) Add(key K, value V) error {
	if len(s.frames) == 0 {
		return ErrNoFrame
	}
	top := &s.frames[len(s.frames)-1]
	if _, ok := top.values[key]; !ok {
		top.order = append(top.order, key)
	}
	top.values[key] = value
	return nil
}

// MustAdd is Add that panics when no frame is entered.
func (s *Stack[K, V]) MustAdd(key K, value V) {
	if err := s.Add(key, value); err != nil {
		panic(err)
	}
}

// Lookup returns the innermost binding of key.
func (s *Stack[K, V]) Lookup(key K) (V, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].values[key]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Depth returns the number of entered frames.
func (s *Stack[K, V]) Depth() int { return len(s.frames) }

// Entry is one visible binding.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Visible returns every binding reachable by Lookup, outermost first.
// A key shadowed by an inner frame appears once, at the position of its
// first (outermost) declaration, carrying the innermost value.
func (s *Stack[K, V]) Visible() []Entry[K, V] {
	var keys []K
	seen := make(map[K]bool)
	for _, f := range s.frames {
		for _, k := range f.order {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	out := make([]Entry[K, V], 0, len(keys))
	for _, k := range keys {
		v, _ := s.Lookup(k)
		out = append(out, Entry[K, V]{Key: k, Value: v})
	}
	return out
}
