package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxRecords bounds the number of distinct screenings held. Zero or
// less means unbounded.
func WithMaxRecords(n int) Option {
	return func(s *MemoryStore) { s.maxRecords = n }
}
