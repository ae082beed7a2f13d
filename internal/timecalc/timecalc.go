package timecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatTime formats seconds as HH:MM:SS, or HH:MM when showSeconds is false.
// Hours are not wrapped at 24.
func FormatTime(totalSeconds int64, showSeconds bool) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	if !showSeconds {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseTime parses "H:M:S" or "H:M" into seconds. Any other shape,
// including non-numeric parts, yields 0.
func ParseTime(text string) int64 {
	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}
	weights := []int64{3600, 60, 1}
	var total int64
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 63)
		if err != nil {
			return 0
		}
		w := weights[i]
		if int64(n) > (math.MaxInt64-total)/w {
			return 0
		}
		total += int64(n) * w
	}
	return total
}

// Preset is a quick-add amount offered next to each project.
type Preset struct {
	Label   string
	Seconds int64
}

// Presets are the quick-add amounts in ascending order.
var Presets = []Preset{
	{"5m", 5 * 60},
	{"10m", 10 * 60},
	{"15m", 15 * 60},
	{"30m", 30 * 60},
	{"1h", 60 * 60},
	{"8h", 8 * 60 * 60},
}

// DefaultPreset is the index of the preset selected before the user picks one.
const DefaultPreset = 2

// ParseDelta parses a signed amount of time given as a preset label,
// HH:MM[:SS] or a Go duration such as "90s".
func ParseDelta(text string) (int64, error) {
	s := strings.TrimSpace(text)
	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	if s == "" {
		return 0, fmt.Errorf("empty time value")
	}
	for _, p := range Presets {
		if strings.EqualFold(p.Label, s) {
			return sign * p.Seconds, nil
		}
	}
	if strings.Contains(s, ":") {
		secs := ParseTime(s)
		if secs == 0 && !isZeroClock(s) {
			return 0, fmt.Errorf("invalid time %q, want HH:MM or HH:MM:SS", text)
		}
		return sign * secs, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", text, err)
	}
	return sign * int64(d/time.Second), nil
}

func isZeroClock(s string) bool {
	return strings.Trim(s, "0: ") == "" && strings.Count(s, ":") <= 2
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
