package lastseen

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }

	cases := []struct {
		seen int64
		want string
	}{
		{ago(0), "just now"},
		{ago(59 * time.Second), "just now"},
		{ago(time.Minute), "1 minute ago"},
		{ago(119 * time.Second), "1 minute ago"},
		{ago(2 * time.Minute), "2 minutes ago"},
		{ago(59*time.Minute + 59*time.Second), "59 minutes ago"},
		{ago(time.Hour), "1 hour ago"},
		{ago(5*time.Hour + 30*time.Minute), "5 hours ago"},
		{ago(24 * time.Hour), "1 day ago"},
		{ago(47 * time.Hour), "1 day ago"},
		{ago(48 * time.Hour), "2 days ago"},
		{ago(400 * 24 * time.Hour), "400 days ago"},
		{now.Add(time.Hour).UnixMilli(), "just now"},
	}
	for _, c := range cases {
		if got := Format(c.seen, true, now); got != c.want {
			t.Fatalf("Format(%s ago) = %q, want %q", now.Sub(time.UnixMilli(c.seen)), got, c.want)
		}
	}
	if got := Format(0, false, now); got != "never" {
		t.Fatalf("got %q, want never", got)
	}
}
