// Package scale holds the two ordinal scales participants are measured on:
// the daily mindset rating (toxic..driver) and the AI maturity level (0..3).
package scale

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a mindset rating label.
type Level string

// The four rating labels, lowest to highest.
const (
	Toxic  Level = "toxic"
	Talker Level = "talker"
	Action Level = "action"
	Driver Level = "driver"
)

// Sentinel kinds for scale errors.
var (
	ErrUnknownLevel    = errors.New("level must be one of: toxic, talker, action, driver")
	ErrInvalidMaturity = errors.New("maturity level must be 0, 1, 2, or 3")
)

var ordered = [...]Level{Toxic, Talker, Action, Driver} //nolint:gochecknoglobals // fixed scale

// Levels returns the labels in ascending order.
func Levels() []Level {
	out := make([]Level, len(ordered))
	copy(out, ordered[:])
	return out
}

// Value returns the ordinal value 1..4, or 0 for a label outside the scale.
func (l Level) Value() int {
	for i, o := range ordered {
		if o == l {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether l is one of the four labels.
func (l Level) Valid() bool { return l.Value() != 0 }

func (l Level) String() string { return string(l) }

// FromValue maps 1..4 back to a label.
func FromValue(v int) (Level, bool) {
	if v < 1 || v > len(ordered) {
		return "", false
	}
	return ordered[v-1], true
}

// ParseLevel accepts a label in any case and returns its canonical form.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrUnknownLevel, s)
	}
	return l, nil
}

// Maturity is the AI maturity level of a participant.
type Maturity int

// Bounds of the maturity scale.
const (
	MinMaturity Maturity = 0
	MaxMaturity Maturity = 3
)

// ParseMaturity validates v against the four-point maturity scale.
func ParseMaturity(v int) (Maturity, error) {
	m := Maturity(v)
	if m < MinMaturity || m > MaxMaturity {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidMaturity, v)
	}
	return m, nil
}

func (m Maturity) String() string { return fmt.Sprintf("%d", int(m)) }
