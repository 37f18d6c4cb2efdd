package world

// denseStore keeps values in a dense slice for cache-friendly iteration and
// a map from key to slice index for lookups. Removal swaps the last value into
// the hole, so iteration order is not stable across removals.
type denseStore[K comparable, V any] struct {
	index  map[K]int
	keys   []K
	values []V
}

func newDenseStore[K comparable, V any]() *denseStore[K, V] {
	return &denseStore[K, V]{
		index:  make(map[K]int),
		keys:   make([]K, 0, 64),
		values: make([]V, 0, 64),
	}
}

func (s *denseStore[K, V]) set(k K, v V) {
	if i, ok := s.index[k]; ok {
		s.values[i] = v
		return
	}

	s.index[k] = len(s.values)
	s.keys = append(s.keys, k)
	s.values = append(s.values, v)
}

func (s *denseStore[K, V]) get(k K) (V, bool) {
	i, ok := s.index[k]
	if !ok {
		var zero V
		return zero, false
	}

	return s.values[i], true
}

func (s *denseStore[K, V]) has(k K) bool {
	_, ok := s.index[k]
	return ok
}

func (s *denseStore[K, V]) remove(k K) bool {
	i, ok := s.index[k]
	if !ok {
		return false
	}

	s.removeAt(i)

	return true
}

func (s *denseStore[K, V]) removeAt(i int) {
	last := len(s.values) - 1
	delete(s.index, s.keys[i])

	if i != last {
		s.keys[i] = s.keys[last]
		s.values[i] = s.values[last]
		s.index[s.keys[i]] = i
	}

	var zero V
	s.values[last] = zero
	s.keys = s.keys[:last]
	s.values = s.values[:last]
}

func (s *denseStore[K, V]) len() int {
	return len(s.values)
}
