package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/report"
)

// setup points the CLI at an empty data directory.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WMT_HOME", dir)
	t.Setenv("WMT_STORAGE_BACKEND", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "wmt %s\n%s", strings.Join(args, " "), out)
	return out
}

var schoolDay = []string{
	"log", "2026-04-06",
	"--school", "Hillside",
	"--start", "08:00", "--end", "4:30pm",
	"--from-home", "--to", "Brookfield",
	"--start-mileage", "100", "--end-mileage", "150",
}

func TestLogShowAndSummaries(t *testing.T) {
	setup(t)

	out := mustRun(t, schoolDay...)
	assert.Contains(t, out, "Saved 2026-04-06")
	assert.Contains(t, out, "7h 30m")
	assert.Contains(t, out, "Business miles: 50.0")

	out = mustRun(t, "show", "2026-04-06")
	assert.Contains(t, out, "Hillside")
	assert.Contains(t, out, "08:00 – 16:30")
	assert.Contains(t, out, "Business:    50.0 mi")

	out = mustRun(t, "week", "--date", "2026-04-08", "--format", "json")
	var week model.WeeklySummary
	require.NoError(t, json.Unmarshal([]byte(out), &week))
	assert.Equal(t, "2026-04-06", week.WeekStart)
	assert.Equal(t, "2026-04-12", week.WeekEnd)
	assert.InDelta(t, 7.5, week.TotalHours, 1e-9)
	assert.InDelta(t, 50.0, week.TotalMiles, 1e-9)
	require.Len(t, week.DailyBreakdown, 1)

	out = mustRun(t, "week", "--date", "2026-04-13", "--offset", "-1", "--format", "csv")
	assert.Contains(t, out, "2026-04-06,Hillside,7.5,50.0")

	out = mustRun(t, "month", "--month", "2026-04", "--format", "csv")
	assert.Contains(t, out, "total,,7.5,50.0,0.00,0")

	out = mustRun(t, "list", "--date", "2026-04-06")
	assert.Contains(t, out, "2026-04-06")

	out = mustRun(t, "list", "--all", "--format", "json")
	var entries []model.DayEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
}

func TestLogReplaceKeepsID(t *testing.T) {
	setup(t)
	mustRun(t, schoolDay...)
	first := listAll(t)

	args := append(append([]string{}, schoolDay...), "--rebooking")
	mustRun(t, args...)
	second := listAll(t)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, second[0].IsRebooking)
}

func listAll(t *testing.T) []model.DayEntry {
	t.Helper()
	var entries []model.DayEntry
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "list", "--all", "--format", "json")), &entries))
	return entries
}

func TestLogDayOff(t *testing.T) {
	setup(t)
	out := mustRun(t, "log", "2026-04-07", "--day-off", "--comment", "Easter")
	assert.Contains(t, out, "Day off (7h 12m)")
	assert.NotContains(t, out, "Business miles")
}

func TestLogValidationIsUserError(t *testing.T) {
	setup(t)
	_, err := run(t, "log", "2026-04-06", "--start", "08:00", "--end", "16:00", "--from-home", "--to", "Lab")
	require.Error(t, err)
	assert.Equal(t, exitUser, exitCode(err))

	_, err = run(t, "log", "06/04/2026", "--day-off")
	require.Error(t, err)
	assert.Equal(t, exitUser, exitCode(err))
}

func TestDelete(t *testing.T) {
	setup(t)
	mustRun(t, schoolDay...)

	out := mustRun(t, "delete", "2026-04-06")
	assert.Contains(t, out, "Deleted 2026-04-06")

	_, err := run(t, "show", "2026-04-06")
	require.Error(t, err)
	assert.Equal(t, exitUser, exitCode(err))

	_, err = run(t, "delete", "2026-04-06")
	assert.Equal(t, exitUser, exitCode(err))
}

func TestSQLiteBackend(t *testing.T) {
	dir := setup(t)
	t.Setenv("WMT_STORAGE_BACKEND", "sqlite")

	mustRun(t, schoolDay...)
	assert.FileExists(t, filepath.Join(dir, "wmt.db"))
	assert.NoFileExists(t, filepath.Join(dir, "2026", "04", "06.json"))

	entries := listAll(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-04-06", entries[0].Date)
}

func TestPhoto(t *testing.T) {
	setup(t)
	mustRun(t, schoolDay...)

	out := mustRun(t, "photo", "set", "2026-04-09", "photos/w15.jpg")
	assert.Contains(t, out, "week of 2026-04-06")

	var week model.WeeklySummary
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "week", "--date", "2026-04-06", "--format", "json")), &week))
	assert.Equal(t, "photos/w15.jpg", week.TimesheetPhotoURI)

	mustRun(t, "photo", "clear", "2026-04-06")
	week = model.WeeklySummary{}
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "week", "--date", "2026-04-06", "--format", "json")), &week))
	assert.Empty(t, week.TimesheetPhotoURI)
}

func TestExportWorkbook(t *testing.T) {
	dir := setup(t)
	mustRun(t, schoolDay...)

	path := filepath.Join(dir, "week.xlsx")
	out := mustRun(t, "export", "week", "--date", "2026-04-06", "-o", path)
	assert.Contains(t, out, "Wrote "+path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Week", "A3")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-06", v)

	out = mustRun(t, "export", "month", "--month", "2026-04", "--format", "csv")
	assert.Contains(t, out, "total,,7.5,50.0")
}

func TestImportICS(t *testing.T) {
	dir := setup(t)
	mustRun(t, "log", "2026-04-14", "--day-off")

	cal := strings.ReplaceAll(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//wmt//test//EN
BEGIN:VEVENT
UID:1@test
DTSTAMP:20260101T000000Z
SUMMARY:Annual Leave
DTSTART;VALUE=DATE:20260410
DTEND;VALUE=DATE:20260415
END:VEVENT
END:VCALENDAR
`, "\n", "\r\n")
	path := filepath.Join(dir, "leave.ics")
	require.NoError(t, os.WriteFile(path, []byte(cal), 0o644))

	out := mustRun(t, "import-ics", path, "--dry-run")
	assert.Contains(t, out, "2 imported")
	assert.Len(t, listAll(t), 1)

	// Fri 10, Mon 13 imported; the weekend and the logged Tue 14 are skipped.
	out = mustRun(t, "import-ics", path)
	assert.Contains(t, out, "✓ Imported: 2026-04-10 Annual Leave")
	assert.Contains(t, out, "2 imported")
	assert.Contains(t, out, "3 skipped")
	assert.Len(t, listAll(t), 3)

	_, err := run(t, "import-ics", filepath.Join(dir, "missing.ics"))
	assert.Equal(t, exitUser, exitCode(err))
}

func TestSettings(t *testing.T) {
	dir := setup(t)
	out := mustRun(t, "settings")
	assert.Contains(t, out, "Data directory: "+dir)
	assert.Contains(t, out, "Storage:        files")
	assert.Contains(t, out, "\"contracted_hours_per_week\": 40")
}

func TestParseDay(t *testing.T) {
	now := time.Date(2026, 4, 8, 15, 4, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2026-04-08", false},
		{"today", "2026-04-08", false},
		{"Yesterday", "2026-04-07", false},
		{"2026-02-28", "2026-02-28", false},
		{"2026-02-30", "", true},
		{"tomorrow", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDay(tt.in, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, exitUser, exitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestAnchors(t *testing.T) {
	now := time.Date(2026, 4, 8, 9, 0, 0, 0, time.UTC)

	w, err := weekAnchor("", -1, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-30", w.Format("2006-01-02"))

	m, err := monthAnchor("", 0, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", m.Format("2006-01-02"))

	m, err = monthAnchor("2026-01", -1, now)
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", m.Format("2006-01-02"))

	m, err = monthAnchor("2026-02-17", 0, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", m.Format("2006-01-02"))

	_, err = monthAnchor("April", 0, now)
	assert.Equal(t, exitUser, exitCode(err))
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, "wmt-week-2026-W15.xlsx", exportPath("", report.XLSX, "week", "2026-W15"))
	assert.Equal(t, "out.xlsx", exportPath("out.xlsx", report.XLSX, "week", "2026-W15"))
	assert.Equal(t, "", exportPath("", report.CSV, "month", "2026-04"))
}

func TestSyncRangeResolve(t *testing.T) {
	now := time.Date(2026, 4, 8, 9, 0, 0, 0, time.UTC)
	day := func(tm time.Time) string { return tm.Format("2006-01-02") }

	from, to, err := syncRange{}.resolve(now)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", day(from))
	assert.Equal(t, "2026-04-30", day(to))

	from, to, err = syncRange{from: "2026-04-01"}.resolve(now)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", day(from))
	assert.Equal(t, "2026-04-08", day(to))

	from, to, err = syncRange{date: "2026-04-03"}.resolve(now)
	require.NoError(t, err)
	assert.Equal(t, day(from), day(to))

	_, _, err = syncRange{to: "2026-04-03"}.resolve(now)
	assert.Equal(t, exitUser, exitCode(err))

	_, _, err = syncRange{from: "2026-04-05", to: "2026-04-03"}.resolve(now)
	assert.Equal(t, exitUser, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUser, exitCode(errors.New("plain")))
	assert.Equal(t, exitUser, exitCode(userErrf("bad %s", "input")))
	assert.Equal(t, exitStorage, exitCode(storageErr(errors.New("disk"))))
	assert.NoError(t, storageErr(nil))
}
