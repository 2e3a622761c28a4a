package timeutil

import (
	"testing"
	"time"
)

func TestRelativeTo(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relativeTo(tt.t, now); got != tt.want {
				t.Errorf("relativeTo = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelativeTo_OldDatesUseAbsoluteForm(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	old := now.Add(-90 * 24 * time.Hour)

	got := relativeTo(old, now)
	if got == "" || got[0] != '2' {
		t.Errorf("relativeTo(old) = %q, want a YYYY-MM-DD date", got)
	}
}
