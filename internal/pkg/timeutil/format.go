// Package timeutil formats server timestamps for terminal display.
// The backend reports UTC; listings show the user's local clock.
package timeutil

import (
	"fmt"
	"time"
)

// FormatLocal renders a timestamp in the local timezone.
func FormatLocal(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// Relative renders how long ago a timestamp was, in the coarsest unit
// that is still accurate enough for a timeline listing.
func Relative(t time.Time) string {
	return relativeTo(t, time.Now())
}

func relativeTo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 0:
		return FormatLocal(t)
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Local().Format("2006-01-02")
	}
}
