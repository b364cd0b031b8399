package consensus

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithThresholds replaces the bucket boundaries. Boundaries must be strictly
// increasing; anything else is ignored and the defaults stay in place.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) {
		if t.Talker < t.Action && t.Action < t.Driver {
			e.thresholds = t
		}
	}
}
