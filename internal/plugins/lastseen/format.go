package lastseen

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

var magnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "just now", DivBy: 1},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d days %s", DivBy: humanize.Day},
}

// Format describes a last seen timestamp relative to now in the largest whole
// unit, e.g. "3 hours ago".
func Format(lastSeenMillis int64, ok bool, now time.Time) string {
	if !ok {
		return "never"
	}
	seen := time.UnixMilli(lastSeenMillis)
	if seen.After(now) {
		return "just now"
	}
	return humanize.CustomRelTime(seen, now, "ago", "ago", magnitudes)
}
