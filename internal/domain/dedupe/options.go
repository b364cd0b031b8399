package dedupe

// Option applies a configuration option to a Deduper.
type Option func(*setDeduper)

// WithNormalizer maps ids before comparison, e.g. to fold case.
func WithNormalizer(fn func(string) string) Option {
	return func(d *setDeduper) {
		if fn != nil {
			d.normalize = fn
		}
	}
}
