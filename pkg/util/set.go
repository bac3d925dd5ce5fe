package util

// Set tracks membership of comparable keys. It is an ordinary map
// underneath, so an empty literal is ready to use and iteration order is
// unspecified
type Set[K comparable] map[K]struct{}

// SetOf builds a Set holding the given keys
func SetOf[K comparable](keys ...K) Set[K] {
	s := make(Set[K], len(keys))
	s.Add(keys...)
	return s
}

// Add inserts the given keys
func (s Set[K]) Add(keys ...K) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

// Remove deletes the given keys
func (s Set[K]) Remove(keys ...K) {
	for _, k := range keys {
		delete(s, k)
	}
}

// Contains reports whether key is a member
func (s Set[K]) Contains(key K) bool {
	_, ok := s[key]
	return ok
}

// Len reports the number of members
func (s Set[K]) Len() int {
	return len(s)
}

// IsEmpty reports whether the set has no members
func (s Set[K]) IsEmpty() bool {
	return len(s) == 0
}
