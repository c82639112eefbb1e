package dayoff_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-mileage-tracker/internal/config"
	"github.com/Tiliavir/work-mileage-tracker/internal/dayoff"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandDays(t *testing.T) {
	got := dayoff.ExpandDays(day(2026, 8, 3), day(2026, 8, 6), "Summer")
	require.Len(t, got, 3)
	assert.Equal(t, day(2026, 8, 3), got[0].Date)
	assert.Equal(t, day(2026, 8, 5), got[2].Date)
	assert.Equal(t, "Summer", got[2].Note)

	single := dayoff.ExpandDays(day(2026, 8, 3), day(2026, 8, 3), "")
	assert.Len(t, single, 1)
}

func TestDedupe(t *testing.T) {
	in := []dayoff.Candidate{
		{Date: day(2026, 8, 5), Note: "b"},
		{Date: time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC), Note: "a"},
		{Date: day(2026, 8, 5), Note: "dup"},
	}
	got := dayoff.Dedupe(in)
	require.Len(t, got, 2)
	assert.Equal(t, day(2026, 8, 3), got[0].Date)
	assert.Equal(t, "b", got[1].Note)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewFileStore(t.TempDir(), nil)
	settings := config.DefaultSettings()
	settings.ContractedHoursPerDay = 7.5

	require.NoError(t, repo.Save(ctx, model.DayEntry{ID: "existing", Date: "2026-08-04", HoursWorked: 8}))

	// Mon 3 Aug to Sun 9 Aug 2026.
	candidates := dayoff.ExpandDays(day(2026, 8, 3), day(2026, 8, 10), "Annual leave")
	var outcomes []dayoff.Outcome
	res, err := dayoff.Import(ctx, repo, candidates, dayoff.Options{
		Settings: settings,
		Report:   func(_ dayoff.Candidate, o dayoff.Outcome) { outcomes = append(outcomes, o) },
	})
	require.NoError(t, err)

	assert.Equal(t, dayoff.Result{Imported: 4, Skipped: 3}, res)
	assert.Len(t, outcomes, 7)

	got, err := repo.Get(ctx, "2026-08-03")
	require.NoError(t, err)
	assert.True(t, got.IsDayOff)
	assert.Equal(t, 7.5, got.HoursWorked)
	assert.Equal(t, model.LocationDayOff, got.StartLocation)
	require.NotNil(t, got.Comments)
	assert.Equal(t, "Annual leave", *got.Comments)

	kept, err := repo.Get(ctx, "2026-08-04")
	require.NoError(t, err)
	assert.Equal(t, "existing", kept.ID, "existing entries are never overwritten")

	_, err = repo.Get(ctx, "2026-08-08")
	assert.ErrorIs(t, err, storage.ErrNotFound, "weekends are skipped by default")

	again, err := dayoff.Import(ctx, repo, candidates, dayoff.Options{Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, dayoff.Result{Skipped: 7}, again, "import is idempotent")
}

func TestImportDryRunAndWeekends(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewFileStore(t.TempDir(), nil)
	candidates := []dayoff.Candidate{{Date: day(2026, 8, 8)}, {Date: day(2026, 8, 9)}}

	res, err := dayoff.Import(ctx, repo, candidates, dayoff.Options{
		DryRun:          true,
		IncludeWeekends: true,
		Settings:        config.DefaultSettings(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "dry run writes nothing")
}

func TestImportHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dayoff.Import(ctx, storage.NewFileStore(t.TempDir(), nil),
		[]dayoff.Candidate{{Date: day(2026, 8, 3)}}, dayoff.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
