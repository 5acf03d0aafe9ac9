package bridge

import "time"

// Clock reports the current date and time, formatted for display.
type Clock interface {
	CurrentDateTime() string
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() string

func (f ClockFunc) CurrentDateTime() string { return f() }

// SystemClock reads the host clock.
type SystemClock struct {
	Location *time.Location
	Layout   string
	Now      func() time.Time
}

func (c SystemClock) CurrentDateTime() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	t := now()
	if c.Location != nil {
		t = t.In(c.Location)
	}
	layout := c.Layout
	if layout == "" {
		layout = time.UnixDate
	}
	return t.Format(layout)
}
