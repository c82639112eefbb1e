package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
)

func TestLoadFileFirstRunWritesTemplate(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(dir), cfg)

	_, err = os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err, "template should be written on first run")

	// The annotated template must itself parse back to the defaults.
	again, err := LoadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendFiles, again.Storage.Backend)
	assert.True(t, again.Settings.MileageRate.Equal(decimal.RequireFromString("0.14")))
	assert.Equal(t, model.MonthDay{Month: time.April, Day: 1}, again.Settings.HolidayYearStart)
	assert.Equal(t, 7.2, again.Settings.ContractedHoursPerDay)
	assert.Equal(t, 28.0, again.Settings.TotalAnnualHolidayDays)
	assert.Equal(t, DefaultClientID, again.Outlook.ClientID)
	assert.NoError(t, again.Validate())
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `// only the rate and holiday year are customised
{
  "settings": {
    "mileage_rate": 0.45,
    // full dates are accepted; the year is ignored
    "holiday_year_start": "2025-09-01"
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o600))

	cfg, err := LoadFile(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Settings.MileageRate.Equal(decimal.RequireFromString("0.45")))
	assert.Equal(t, model.MonthDay{Month: time.September, Day: 1}, cfg.Settings.HolidayYearStart)
	assert.Equal(t, 40.0, cfg.Settings.ContractedHoursPerWeek)
	assert.Equal(t, BackendFiles, cfg.Storage.Backend)
	assert.Equal(t, DefaultTenantID, cfg.Outlook.TenantID)
	assert.Equal(t, filepath.Join(dir, "wmt.db"), cfg.SQLitePath())
}

func TestLoadFileCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{bad"), 0o600))

	_, err := LoadFile(dir)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"WMT_STORAGE_BACKEND":           "sqlite",
		"WMT_LOG_LEVEL":                 "debug",
		"WMT_MILEAGE_RATE":              "0.25",
		"WMT_CONTRACTED_HOURS_PER_WEEK": "37.5",
		"WMT_HOLIDAY_YEAR_START":        "01-01",
	}
	cfg := defaultConfig(t.TempDir())

	require.NoError(t, applyEnv(&cfg, func(k string) string { return env[k] }))

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Settings.MileageRate.Equal(decimal.RequireFromString("0.25")))
	assert.Equal(t, 37.5, cfg.Settings.ContractedHoursPerWeek)
	assert.Equal(t, model.MonthDay{Month: time.January, Day: 1}, cfg.Settings.HolidayYearStart)
	assert.Equal(t, 7.2, cfg.Settings.ContractedHoursPerDay, "unset variables leave values alone")
}

func TestApplyEnvReportsAllErrors(t *testing.T) {
	env := map[string]string{
		"WMT_MILEAGE_RATE":             "cheap",
		"WMT_CONTRACTED_HOURS_PER_DAY": "seven",
	}
	cfg := defaultConfig("")
	err := applyEnv(&cfg, func(k string) string { return env[k] })
	require.Error(t, err)
	assert.ErrorContains(t, err, "WMT_MILEAGE_RATE")
	assert.ErrorContains(t, err, "WMT_CONTRACTED_HOURS_PER_DAY")
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig("")
	cfg.Storage.Backend = "postgres"
	cfg.Settings.MileageRate = decimal.NewFromInt(-1)
	cfg.Settings.ContractedHoursPerWeek = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "storage.backend")
	assert.ErrorContains(t, err, "mileage_rate")
	assert.ErrorContains(t, err, "contracted_hours_per_week")
}

func TestStripLineComments(t *testing.T) {
	in := []byte("// header\n{\n  // note\n  \"a\": 1\n}")
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(stripLineComments(in)))
}
