package audit

import (
	"time"

	"github.com/okian/mindset-tracker/pkg/logger"
)

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithClock sets the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator sets the source of entry key suffixes.
func WithIDGenerator(fn func() string) Option {
	return func(r *Recorder) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// WithLogger mirrors recorded entries to l.
func WithLogger(l logger.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.log = l
		}
	}
}
