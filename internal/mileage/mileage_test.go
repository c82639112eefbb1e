package mileage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/work-mileage-tracker/internal/mileage"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
)

func TestBusinessMiles(t *testing.T) {
	tests := []struct {
		name                 string
		start, end, personal float64
		want                 float64
	}{
		{"personal offset", 45000, 45120, 20, 100},
		{"no personal miles", 100, 150.5, 0, 50.5},
		{"personal exceeds total clamps", 100, 110, 25, 0},
		{"no driving", 500, 500, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, mileage.BusinessMiles(tt.start, tt.end, tt.personal), 1e-9)
		})
	}
}

func TestBusinessMilesNeverNegative(t *testing.T) {
	for start := 0.0; start < 200; start += 13 {
		for driven := 0.0; driven < 100; driven += 7 {
			for personal := 0.0; personal < 150; personal += 11 {
				got := mileage.BusinessMiles(start, start+driven, personal)
				assert.GreaterOrEqual(t, got, 0.0)
				if personal <= driven {
					assert.InDelta(t, driven-personal, got, 1e-9)
				}
			}
		}
	}
}

func TestForEntry(t *testing.T) {
	base := model.DayEntry{StartMileage: 45000, EndMileage: 45120, PersonalMiles: 20}

	t.Run("school day tracks mileage", func(t *testing.T) {
		assert.True(t, mileage.Tracked(base))
		assert.InDelta(t, 100.0, mileage.ForEntry(base), 1e-9)
	})

	t.Run("lab without deliveries ignores stored readings", func(t *testing.T) {
		e := base
		e.IsWorkingInLab = true
		assert.False(t, mileage.Tracked(e))
		assert.Zero(t, mileage.ForEntry(e))
		assert.Equal(t, 45120.0, e.EndMileage, "stored data is untouched")
	})

	t.Run("lab with deliveries tracks mileage", func(t *testing.T) {
		e := base
		e.IsWorkingInLab = true
		e.HasDeliveries = true
		assert.InDelta(t, 100.0, mileage.ForEntry(e), 1e-9)
	})

	t.Run("day off never counts", func(t *testing.T) {
		e := base
		e.IsDayOff = true
		assert.Zero(t, mileage.ForEntry(e))
	})
}
