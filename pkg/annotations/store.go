package annotations

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Store attaches named values to arbitrary target objects, keyed by target
// identity. Targets must be comparable; pointers are the common case.
type Store struct {
	mu      sync.RWMutex
	targets map[any]*entry
}

type entry struct {
	values map[string]any
	keys   []string // definition order
}

// NewStore creates an empty annotation store.
func NewStore() *Store {
	return &Store{targets: make(map[any]*entry)}
}

// Define attaches value to target under key, replacing any previous value.
// The key keeps its original position in Keys when redefined.
// Panics if target is not comparable (slices, maps, funcs).
func (s *Store) Define(target any, key string, value any) {
	assertComparable(target)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.targets[target]
	if !ok {
		e = &entry{values: make(map[string]any)}
		s.targets[target] = e
	}
	if _, exists := e.values[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// GetOwn returns the value defined on target under key.
func (s *Store) GetOwn(target any, key string) (any, bool) {
	assertComparable(target)

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.targets[target]
	if !ok {
		return nil, false
	}
	v, ok := e.values[key]
	return v, ok
}

// Delete removes the value defined on target under key. Removing the last
// key releases the target entry entirely.
func (s *Store) Delete(target any, key string) {
	assertComparable(target)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.targets[target]
	if !ok {
		return
	}
	if _, exists := e.values[key]; !exists {
		return
	}
	delete(e.values, key)
	e.keys = slices.DeleteFunc(e.keys, func(k string) bool { return k == key })
	if len(e.keys) == 0 {
		delete(s.targets, target)
	}
}

// Keys returns the keys defined on target in definition order.
func (s *Store) Keys(target any) []string {
	assertComparable(target)

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.targets[target]
	if !ok {
		return nil
	}
	return slices.Clone(e.keys)
}

// Has reports whether any annotation is defined on target.
func (s *Store) Has(target any) bool {
	assertComparable(target)

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.targets[target]
	return ok
}

func assertComparable(target any) {
	if target == nil {
		panic(fmt.Errorf("annotations: target must not be nil"))
	}
	if !reflect.TypeOf(target).Comparable() {
		panic(fmt.Errorf("annotations: target of type %T is not comparable", target))
	}
}

var defaultStore = NewStore()

// Define attaches value to target under key in the default store.
func Define(target any, key string, value any) { defaultStore.Define(target, key, value) }

// GetOwn returns the value defined on target under key in the default store.
func GetOwn(target any, key string) (any, bool) { return defaultStore.GetOwn(target, key) }

// Delete removes the value defined on target under key in the default store.
func Delete(target any, key string) { defaultStore.Delete(target, key) }

// Keys returns the keys defined on target in the default store.
func Keys(target any) []string { return defaultStore.Keys(target) }

// Has reports whether any annotation is defined on target in the default store.
func Has(target any) bool { return defaultStore.Has(target) }
