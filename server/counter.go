package server

import "sync"

// single is a set of named request counters.
type single struct {
	mu     sync.Mutex
	values map[string]int64
}

func newCounter() *single {
	return &single{values: make(map[string]int64)}
}

func (s *single) Get(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func (s *single) Set(key string, newValue int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = newValue
	return s.values[key]
}

func (s *single) Incr(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key]++
	return s.values[key]
}

// Snapshot copies the current counts.
func (s *single) Snapshot() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
