package dedupe

// Option applies a configuration option to the Filter.
type Option func(*Filter)

// WithCapacity presizes the filter for an expected row count.
func WithCapacity(n int) Option {
	return func(f *Filter) {
		f.capacity = n
	}
}
