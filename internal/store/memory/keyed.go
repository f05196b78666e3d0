package memory

import (
	"errors"
	"sync"
)

var (
	ErrKeyNotFound = errors.New("memory: key not found")
	ErrKeyExists   = errors.New("memory: key already exists")
	ErrConflict    = errors.New("memory: value conflicts with a stored entry")
)

// KeyedStore is an insertion-ordered map guarded by a single RWMutex.
// Values are copied on the way in and out with the clone func, so callers
// never share memory with the store.
type KeyedStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	clone func(T) T
}

func NewKeyedStore[T any](clone func(T) T) *KeyedStore[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &KeyedStore[T]{
		items: make(map[string]T),
		clone: clone,
	}
}

func (s *KeyedStore[T]) Insert(key string, value T) (T, error) {
	return s.InsertUnique(key, value, nil)
}

// InsertUnique is Insert with a secondary uniqueness rule: conflict is asked
// about every stored value under the same lock that commits the new one, and
// any match fails the insert with ErrConflict.
func (s *KeyedStore[T]) InsertUnique(key string, value T, conflict func(stored T) bool) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if _, exists := s.items[key]; exists {
		return zero, ErrKeyExists
	}
	if s.conflicts(key, conflict) {
		return zero, ErrConflict
	}
	s.items[key] = s.clone(value)
	s.order = append(s.order, key)
	return s.clone(value), nil
}

func (s *KeyedStore[T]) Lookup(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	return s.clone(v), true
}

// First returns the first value, in insertion order, that satisfies match.
func (s *KeyedStore[T]) First(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range s.order {
		if v := s.items[key]; match(v) {
			return s.clone(v), true
		}
	}
	var zero T
	return zero, false
}

func (s *KeyedStore[T]) Values() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.clone(s.items[key]))
	}
	return out
}

func (s *KeyedStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Mutate applies fn to a copy of the value stored under key and commits it
// under newKey. The entry keeps its position when re-keyed. Nothing is
// written if the key is missing, newKey collides with another entry, or fn
// returns an error.
func (s *KeyedStore[T]) Mutate(key, newKey string, fn func(*T) error) (T, error) {
	return s.MutateUnique(key, newKey, fn, nil)
}

// MutateUnique is Mutate that also fails with ErrConflict when conflict
// reports true for the mutated value against any other stored entry.
func (s *KeyedStore[T]) MutateUnique(key, newKey string, fn func(*T) error, conflict func(other, next T) bool) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	current, ok := s.items[key]
	if !ok {
		return zero, ErrKeyNotFound
	}
	if newKey != key {
		if _, taken := s.items[newKey]; taken {
			return zero, ErrKeyExists
		}
	}

	next := s.clone(current)
	if err := fn(&next); err != nil {
		return zero, err
	}
	if conflict != nil && s.conflicts(key, func(other T) bool { return conflict(other, next) }) {
		return zero, ErrConflict
	}

	if newKey != key {
		delete(s.items, key)
		for i, k := range s.order {
			if k == key {
				s.order[i] = newKey
				break
			}
		}
	}
	s.items[newKey] = next
	return s.clone(next), nil
}

// conflicts must be called with the lock held. The entry under skip is
// left out of the scan.
func (s *KeyedStore[T]) conflicts(skip string, match func(T) bool) bool {
	if match == nil {
		return false
	}
	for k, v := range s.items {
		if k != skip && match(v) {
			return true
		}
	}
	return false
}

func (s *KeyedStore[T]) Remove(key string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[key]
	if !ok {
		var zero T
		return zero, ErrKeyNotFound
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return v, nil
}
