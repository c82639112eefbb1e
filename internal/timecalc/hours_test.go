package timecalc_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

func TestWorkedHours(t *testing.T) {
	tests := []struct {
		name        string
		start, end  string
		endsAtFixed bool
		want        float64
	}{
		{"office day", "09:00", "17:30", false, 7.5},
		{"ends at lab", "09:00", "17:30", true, 8.0},
		{"overnight", "22:00", "06:00", false, 7.0},
		{"shorter than deductions", "09:00", "09:45", false, 0},
		{"exactly lunch at lab", "09:00", "09:30", true, 0},
		{"empty start", "", "17:00", false, 0},
		{"empty end", "09:00", "", false, 0},
		{"malformed", "nine", "17:00", false, 0},
		{"out of range", "25:00", "17:00", false, 0},
		{"same time wraps to zero", "09:00", "09:00", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timecalc.WorkedHours(tt.start, tt.end, tt.endsAtFixed)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WorkedHours(%q, %q, %v) = %v, want %v", tt.start, tt.end, tt.endsAtFixed, got, tt.want)
			}
		})
	}
}

func TestWorkedHoursTwoDeductions(t *testing.T) {
	// For start < end away from the lab: (end-start)/60 - 1, floored at zero.
	for s := 0; s < 24*60; s += 47 {
		for e := s + 1; e < 24*60; e += 53 {
			start := fmt.Sprintf("%02d:%02d", s/60, s%60)
			end := fmt.Sprintf("%02d:%02d", e/60, e%60)
			want := math.Max(0, float64(e-s)/60-1)
			got := timecalc.WorkedHours(start, end, false)
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("WorkedHours(%s, %s) = %v, want %v", start, end, got, want)
			}
		}
	}
}

func TestDayOffHours(t *testing.T) {
	if got := timecalc.DayOffHours(7.5); got != 7.5 {
		t.Errorf("DayOffHours(7.5) = %v", got)
	}
	if got := timecalc.DayOffHours(0); got != 7.2 {
		t.Errorf("DayOffHours(0) = %v, want 7.2", got)
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"17:30", "17:30", false},
		{"9:05", "09:05", false},
		{"5:30pm", "17:30", false},
		{"5:30 PM", "17:30", false},
		{"12:00pm", "12:00", false},
		{"12:15am", "00:15", false},
		{"11:59 am", "11:59", false},
		{"13:00pm", "", true},
		{"0:30am", "", true},
		{"noon", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := timecalc.NormalizeClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeClock(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeClock(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeClock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0m"},
		{0.75, "45m"},
		{1, "1h 0m"},
		{7.2, "7h 12m"},
		{7.5, "7h 30m"},
	}
	for _, tt := range tests {
		if got := timecalc.FormatHours(tt.hours); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}
