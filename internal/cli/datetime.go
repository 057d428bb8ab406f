package cli

import (
	"fmt"
	"strings"
	"time"
)

// parseInstant accepts the timestamp forms users actually type: full RFC
// 3339, date+time without a zone (interpreted local), and bare dates.
func parseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q (want RFC 3339 or YYYY-MM-DD)", s)
}
