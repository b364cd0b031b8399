// Package consensus folds independent assessor ratings into a single
// per-participant, per-day judgment and compares it against the prior day.
//
// Everything here is a pure function of its inputs. Consensus is never
// stored; callers recompute it from freshly read ratings.
package consensus

import (
	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/internal/domain/scale"
)

// Thresholds are the lower bounds (inclusive) of the talker, action and
// driver buckets. A mean below Talker is toxic.
type Thresholds struct {
	Talker float64
	Action float64
	Driver float64
}

// DefaultThresholds are the fixed bucket boundaries of the rating scale.
var DefaultThresholds = Thresholds{Talker: 1.5, Action: 2.5, Driver: 3.5} //nolint:gochecknoglobals // fixed scale boundaries

// Consensus is the folded rating for one participant on one day.
type Consensus struct {
	Mean  float64     `json:"mean"`
	Label scale.Level `json:"label"`
	Count int         `json:"count"`
}

// Movement describes how consensus moved against the previous day.
type Movement string

// Movement values.
const (
	Up   Movement = "up"
	Down Movement = "down"
	Same Movement = "same"
	None Movement = "none"
)

// Engine computes consensus with a fixed set of bucket thresholds.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an Engine using DefaultThresholds unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{thresholds: DefaultThresholds}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute folds ratings into a Consensus. It returns nil when there is
// nothing to fold. Ratings whose label is outside the scale are skipped.
func (e *Engine) Compute(ratings []model.Rating) *Consensus {
	sum, n := 0, 0
	for _, r := range ratings {
		v := r.Level.Value()
		if v == 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}

	mean := roundHundredths(sum, n)
	return &Consensus{
		Mean:  mean,
		Label: e.Bucket(mean),
		Count: n,
	}
}

// Bucket maps a mean onto a label using half-open intervals.
func (e *Engine) Bucket(mean float64) scale.Level {
	switch {
	case mean < e.thresholds.Talker:
		return scale.Toxic
	case mean < e.thresholds.Action:
		return scale.Talker
	case mean < e.thresholds.Driver:
		return scale.Action
	default:
		return scale.Driver
	}
}

// roundHundredths returns sum/n rounded half-up to two decimals. The
// rounding happens on integers so that values like 2.675 do not drift.
func roundHundredths(sum, n int) float64 {
	hundredths := (200*sum + n) / (2 * n)
	return float64(hundredths) / 100
}

// Compute folds ratings with the default engine.
func Compute(ratings []model.Rating) *Consensus {
	return defaultEngine.Compute(ratings)
}

var defaultEngine = NewEngine() //nolint:gochecknoglobals // stateless default

// Compare returns the movement from previous to current. Means are compared
// numerically, so a move inside the same bucket still counts.
func Compare(current, previous *Consensus) Movement {
	if current == nil || previous == nil {
		return None
	}
	switch {
	case current.Mean > previous.Mean:
		return Up
	case current.Mean < previous.Mean:
		return Down
	default:
		return Same
	}
}
