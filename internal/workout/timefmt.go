package workout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidClock = errors.New("invalid time")

// FormatClock renders seconds as MM:SS. Negative values render as 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseClock reads "M:SS" or a plain number of seconds.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidClock)
	}
	mins, secs, found := strings.Cut(s, ":")
	if !found {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		return n, nil
	}
	m, err := strconv.Atoi(mins)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	sec, err := strconv.Atoi(secs)
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return m*60 + sec, nil
}
