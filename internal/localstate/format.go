package localstate

import (
	"fmt"
	"time"
)

// TimeAgo renders a unix-millisecond timestamp relative to now: "42s ago",
// "5m ago", "3h ago", "2d ago", and a plain date once a week has passed.
func TimeAgo(ms int64, now time.Time) string {
	at := time.UnixMilli(ms)
	diff := now.Sub(at)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff/time.Second))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	}
	return at.Local().Format("2006-01-02")
}
