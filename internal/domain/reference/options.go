package reference

// Option applies a configuration option to a MemoryStore.
type Option func(*MemoryStore)

// WithStrategy fixes the lookup strategy for one indicator. Both sexes of the
// indicator use the same strategy.
func WithStrategy(ind Indicator, strategy Strategy) Option {
	return func(s *MemoryStore) {
		if ind.Valid() && (strategy == Nearest || strategy == Interpolate) {
			s.strategies[ind] = strategy
		}
	}
}

// WithStrategies applies WithStrategy for every entry of m.
func WithStrategies(m map[Indicator]Strategy) Option {
	return func(s *MemoryStore) {
		for ind, st := range m {
			WithStrategy(ind, st)(s)
		}
	}
}

// WithName labels the store, e.g. with the source of its tables.
func WithName(name string) Option {
	return func(s *MemoryStore) {
		if name != "" {
			s.name = name
		}
	}
}
