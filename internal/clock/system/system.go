// Package system provides a real, zone-aware clock implementation.
package system

import "time"

// Clock implements signal.Clock using time.Now, localized to a fixed
// location so digest timestamps render in the operator's timezone.
type Clock struct {
	loc *time.Location
}

// New creates a Clock pinned to loc. A nil loc falls back to time.Local.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc}
}

// Now returns the current time in the configured location.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}
