package model

import (
	"fmt"
	"strings"
)

// Window is a daily clock window [Start, End) in minutes after midnight.
// If Start > End the window wraps across midnight; Start == End is empty.
type Window struct {
	Start int
	End   int
}

// MustWindow builds a window from "HH:MM" bounds and panics on malformed input.
// It is meant for package-level tables.
func MustWindow(start, end string) Window {
	w, err := ParseWindow(start, end)
	if err != nil {
		panic(err)
	}
	return w
}

func ParseWindow(start, end string) (Window, error) {
	s, err := ParseHHMM(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseHHMM(end)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: s, End: e}, nil
}

// Contains reports whether the clock time hour:minute falls inside w.
func (w Window) Contains(hour, minute int) bool {
	t := hour*60 + minute
	if w.Start == w.End {
		return false
	}
	if w.Start < w.End {
		return t >= w.Start && t < w.End
	}
	return t >= w.Start || t < w.End
}

// ParseHHMM parses "HH:MM" into minutes after midnight. "24:00" is accepted
// as an end-of-day bound.
func ParseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h == 24 && m == 0 {
		return 24 * 60, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// FormatHHMM renders a clock time as zero-padded "HH:MM".
func FormatHHMM(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
