// Package orgunit derives stable identifiers for organizational units.
package orgunit

import (
	"errors"
	"strings"
)

// Separator joins the alphanumeric runs of a slug.
const Separator = '-'

// ErrEmptySlug is returned when a name has no ASCII letters or digits.
var ErrEmptySlug = errors.New("name yields an empty identifier")

// Slug lower-cases name and collapses every run of characters outside
// [a-z0-9] into a single separator, trimming separators at either end.
// Non-ASCII letters count as separators.
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pending := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteRune(Separator)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// ID returns Slug(name) or ErrEmptySlug.
func ID(name string) (string, error) {
	id := Slug(name)
	if id == "" {
		return "", ErrEmptySlug
	}
	return id, nil
}
