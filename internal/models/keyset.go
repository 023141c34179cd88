package models

import "sort"

// KeySet is a set of Jira issue keys (e.g. "REL-205").
type KeySet map[string]struct{}

// NewKeySet creates a KeySet from the given keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts a key. Empty keys are dropped so nil-safe extraction from
// API payloads never pollutes the set.
func (s KeySet) Add(key string) {
	if key == "" {
		return
	}
	s[key] = struct{}{}
}

// Contains reports whether key is in the set.
func (s KeySet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Missing returns the keys of required that are not in s, sorted.
func (s KeySet) Missing(required KeySet) []string {
	var missing []string
	for k := range required {
		if !s.Contains(k) {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

// Sorted returns the set's keys in lexical order.
func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys in the set.
func (s KeySet) Len() int {
	return len(s)
}
