// Package repository defines the rating store interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithWindow sets the number of most recent matches used for the
// rolling average.
func WithWindow(window int) Option {
	return func(s *MemStore) {
		if window > 0 {
			s.window = window
		}
	}
}
