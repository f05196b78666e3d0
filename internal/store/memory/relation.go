package memory

import "sync"

// RelationStore holds (subject, object) records in insertion order. Equality
// between records is decided by the same func given at construction.
type RelationStore[T any] struct {
	mu    sync.RWMutex
	items []T
	same  func(a, b T) bool
}

func NewRelationStore[T any](same func(a, b T) bool) *RelationStore[T] {
	return &RelationStore[T]{same: same}
}

func (s *RelationStore[T]) Add(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(item, -1) >= 0 {
		return ErrKeyExists
	}
	s.items = append(s.items, item)
	return nil
}

func (s *RelationStore[T]) Find(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (s *RelationStore[T]) Filter(match func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0)
	for _, item := range s.items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

func (s *RelationStore[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Replace swaps the first record matching match for the one returned by
// build, keeping its index. build sees the current record and may veto the
// change by returning an error.
func (s *RelationStore[T]) Replace(match func(T) bool, build func(current T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	for i, item := range s.items {
		if !match(item) {
			continue
		}
		next, err := build(item)
		if err != nil {
			return zero, err
		}
		if s.indexOf(next, i) >= 0 {
			return zero, ErrKeyExists
		}
		s.items[i] = next
		return next, nil
	}
	return zero, ErrKeyNotFound
}

func (s *RelationStore[T]) Remove(match func(T) bool) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if match(item) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return item, nil
		}
	}
	var zero T
	return zero, ErrKeyNotFound
}

func (s *RelationStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// indexOf reports the index of a record equal to item, ignoring skip.
func (s *RelationStore[T]) indexOf(item T, skip int) int {
	for i, existing := range s.items {
		if i != skip && s.same(existing, item) {
			return i
		}
	}
	return -1
}
