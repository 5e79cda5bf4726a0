package domain

import (
	"errors"
	"fmt"
	"time"
)

// Window is an inclusive calendar date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ParseWindow builds a Window from two YYYY-MM-DD dates.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}
	w := Window{Start: s, End: e}
	return w, w.Validate()
}

// Validate rejects windows that end before they start.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return errors.New("window start and end are required")
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("window end %s is before start %s",
			w.End.Format(DateLayout), w.Start.Format(DateLayout))
	}
	return nil
}

// Contains reports whether t falls on a day inside the window, both ends included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days lists every calendar day of the window in order.
func (w Window) Days() []time.Time {
	if w.End.Before(w.Start) {
		return nil
	}
	var days []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (w Window) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}
