package timecalc_test

import (
	"math"
	"testing"
	"time"

	"github.com/Tiliavir/timeprojec/internal/timecalc"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds     int64
		showSeconds bool
		want        string
	}{
		{0, true, "00:00:00"},
		{61, true, "00:01:01"},
		{3661, true, "01:01:01"},
		{3661, false, "01:01"},
		{5400, false, "01:30"},
		{100 * 3600, true, "100:00:00"},
		{-5, true, "00:00:00"},
	}
	for _, tt := range tests {
		got := timecalc.FormatTime(tt.seconds, tt.showSeconds)
		if got != tt.want {
			t.Errorf("FormatTime(%d, %v) = %q, want %q", tt.seconds, tt.showSeconds, got, tt.want)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"01:01:01", 3661},
		{"01:30", 5400},
		{"1:30", 5400},
		{"0:00:59", 59},
		{"bad:text", 0},
		{"12", 0},
		{"1:2:3:4", 0},
		{"", 0},
		{"1:", 0},
		{"-1:00", 0},
	}
	for _, tt := range tests {
		got := timecalc.ParseTime(tt.input)
		if got != tt.want {
			t.Errorf("ParseTime(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	values := []int64{0, 1, 59, 60, 3599, 3600, 86399, 86400, 123456789, math.MaxInt64 / 2}
	for _, s := range values {
		got := timecalc.ParseTime(timecalc.FormatTime(s, true))
		if got != s {
			t.Errorf("ParseTime(FormatTime(%d)) = %d", s, got)
		}
	}
}

func TestParseDelta(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"15m", 900, false},
		{"8h", 28800, false},
		{"-5m", -300, false},
		{"01:30", 5400, false},
		{"+00:00:10", 10, false},
		{"00:00", 0, false},
		{"90s", 90, false},
		{"-2h30m", -9000, false},
		{"", 0, true},
		{"ab:cd", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseDelta(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDelta(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDelta(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDayBounds(t *testing.T) {
	ts := time.Date(2026, 2, 27, 10, 15, 0, 0, time.UTC)
	if got, want := timecalc.StartOfDay(ts), time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
	if got, want := timecalc.EndOfDay(ts), time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC); !got.Equal(want) {
		t.Errorf("EndOfDay = %v, want %v", got, want)
	}
}
