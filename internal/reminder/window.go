package reminder

import "time"

// Window is a closed time interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns [now, now + horizonDays days].
func NewWindow(now time.Time, horizonDays int) Window {
	now = now.UTC()
	return Window{Start: now, End: now.AddDate(0, 0, horizonDays)}
}

// Contains reports whether t lies within the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
