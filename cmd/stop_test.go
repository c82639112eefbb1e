package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-mileage-tracker/internal/config"
	"github.com/Tiliavir/work-mileage-tracker/internal/entry"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{30, "30s"},
		{59, "59s"},
		{60, "1m 0s"},
		{90, "1m 30s"},
		{3600, "1h 0m 0s"},
		{3661, "1h 1m 1s"},
		{7322, "2h 2m 2s"},
	}
	for _, tt := range tests {
		got := formatElapsed(tt.seconds)
		if got != tt.want {
			t.Errorf("formatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestElapsedSeconds(t *testing.T) {
	assert.Equal(t, int64(9*3600), elapsedSeconds("08:00", "17:00"))
	assert.Equal(t, int64(3*3600), elapsedSeconds("22:00", "01:00"))
	assert.Equal(t, int64(0), elapsedSeconds("", "17:00"))
}

func TestStopInputMergesOpenEntry(t *testing.T) {
	note := "van loaded"
	open := model.DayEntry{
		ID:            "abc",
		Date:          "2026-04-07",
		Schools:       []model.School{{ID: "1", Name: "Hillside"}},
		StartTime:     "08:00",
		StartLocation: model.LocationHome,
		StartMileage:  1000,
		Comments:      &note,
	}
	f := stopFlags{at: "5:00pm", to: "Brookfield", odometer: 1100, hasReading: true, personal: 10, schools: []string{"Brookfield"}, comment: "late finish"}

	in, err := f.input(open, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "abc", in.ID)
	assert.Equal(t, []string{"Hillside", "Brookfield"}, in.Schools)
	assert.True(t, in.StartFromHome)
	assert.Equal(t, "van loaded\nlate finish", in.Comments)

	e, err := entry.Build(in, config.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "17:00", e.EndTime)
	assert.Equal(t, 8.0, e.HoursWorked, "9h minus lunch and travel")
	assert.Equal(t, 1100.0, e.EndMileage)
}

func TestStopInputRequiresEndMileage(t *testing.T) {
	open := model.DayEntry{
		ID: "abc", Date: "2026-04-07",
		Schools:   []model.School{{Name: "Hillside"}},
		StartTime: "08:00", StartLocation: model.LocationHome,
	}
	in, err := (&stopFlags{at: "16:00", to: "Hillside"}).input(open, time.Now())
	require.NoError(t, err)

	_, err = entry.Build(in, config.DefaultSettings())
	assert.ErrorIs(t, err, entry.ErrMissingMileage)
}

func TestStopInputLabDay(t *testing.T) {
	open := model.DayEntry{
		ID: "lab", Date: "2026-04-08",
		Schools:   []model.School{model.LabSchool},
		StartTime: "09:00", StartLocation: model.LocationHome,
		IsWorkingInLab: true,
	}
	in, err := (&stopFlags{at: "17:00", lab: true}).input(open, time.Now())
	require.NoError(t, err)
	assert.Empty(t, in.Schools)

	e, err := entry.Build(in, config.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, []model.School{model.LabSchool}, e.Schools)
	assert.Equal(t, 7.5, e.HoursWorked, "only lunch is deducted when ending at the lab")
}
