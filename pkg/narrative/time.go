// Package narrative derives presentation values from raw snapshot fields:
// uptime, relative time, liveness and synthesized agent status lines.
// Everything here is a pure function of its inputs and the supplied clock;
// nothing is cached between polls because "now" moves even when the
// snapshot does not.
package narrative

import (
	"fmt"
	"time"

	"github.com/grovetools/teamwatch/pkg/locale"
)

// sentinelYear is the last year treated as "unset". Producers encode
// missing timestamps as the zero time or the Unix epoch.
const sentinelYear = 1971

// ValidTimestamp reports whether t carries a real date.
func ValidTimestamp(t time.Time) bool {
	return !t.IsZero() && t.Year() > sentinelYear
}

// Uptime formats now-started as its two largest units: hours and minutes
// past one hour, minutes and seconds past one minute, else seconds.
func Uptime(started, now time.Time, loc *locale.Table) string {
	diff := int(now.Sub(started) / time.Second)

	hours := diff / 3600
	minutes := (diff % 3600) / 60
	seconds := diff % 60

	switch {
	case hours > 0:
		return fmt.Sprintf(loc.Units.HoursMinutes, hours, minutes)
	case minutes > 0:
		return fmt.Sprintf(loc.Units.MinutesSeconds, minutes, seconds)
	default:
		return fmt.Sprintf(loc.Units.Seconds, seconds)
	}
}

// RelativeTime buckets now-t into the largest single unit among seconds,
// minutes, hours and days. Invalid timestamps yield "".
func RelativeTime(t, now time.Time, loc *locale.Table) string {
	if !ValidTimestamp(t) {
		return ""
	}
	if now.IsZero() {
		now = time.Now()
	}

	delta := now.Sub(t)
	if delta < 0 {
		delta = 0
	}

	seconds := int(delta.Seconds())
	if seconds < 60 {
		return fmt.Sprintf(loc.Units.SecondsAgo, seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf(loc.Units.MinutesAgo, minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf(loc.Units.HoursAgo, hours)
	}

	return fmt.Sprintf(loc.Units.DaysAgo, hours/24)
}
