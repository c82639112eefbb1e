package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
)

// Config is the root configuration for wmt, stored in ~/.wmt/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage  StorageConfig     `json:"storage"`
	Log      LogConfig         `json:"log"`
	Settings model.AppSettings `json:"settings"`
	Outlook  OutlookConfig     `json:"outlook"`

	// Dir is the data directory the config was loaded from. Not persisted.
	Dir string `json:"-"`
}

// StorageConfig selects where day entries are kept.
type StorageConfig struct {
	// Backend is "files" (one JSON file per day) or "sqlite".
	Backend string `json:"backend"`
	// SQLitePath is the database file for the sqlite backend. Empty = <dir>/wmt.db.
	SQLitePath string `json:"sqlite_path"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar settings used to
// import out-of-office days.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/London"). Empty = UTC.
	Timezone string `json:"timezone"`
}

const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"

	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// device code flow without a client secret.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
)

// DefaultSettings mirrors a standard 40 hour contract with 28 days of holiday
// and a holiday year starting on April 1.
func DefaultSettings() model.AppSettings {
	return model.AppSettings{
		MileageRate:            decimal.RequireFromString("0.14"),
		ContractedHoursPerWeek: 40,
		ContractedHoursPerDay:  7.2,
		HolidayYearStart:       model.MonthDay{Month: time.April, Day: 1},
		TotalAnnualHolidayDays: 28,
	}
}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig(dir string) Config {
	return Config{
		Storage:  StorageConfig{Backend: BackendFiles},
		Log:      LogConfig{Level: "warn", Format: "console"},
		Settings: DefaultSettings(),
		Outlook: OutlookConfig{
			TenantID: DefaultTenantID,
			ClientID: DefaultClientID,
		},
		Dir: dir,
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// wmt configuration – ~/.wmt/config.json
//
// All settings are optional; missing values fall back to the defaults shown.
// Environment variables (WMT_*) and a .env file in the working directory
// override anything set here.
{
  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "files"  – one JSON file per day under ~/.wmt/YYYY/MM/DD.json (default)
    // "sqlite" – a single SQLite database
    "backend": "files",
    // Database path for the sqlite backend. Empty = ~/.wmt/wmt.db
    "sqlite_path": ""
  },

  // ── Diagnostics ──────────────────────────────────────────────────────────
  "log": {
    // debug, info, warn, error
    "level": "warn",
    // console or json
    "format": "console"
  },

  // ── Contract & allowances ────────────────────────────────────────────────
  "settings": {
    // Currency paid per business mile.
    "mileage_rate": "0.14",
    "contracted_hours_per_week": 40,
    // Hours credited for a day off.
    "contracted_hours_per_day": 7.2,
    // First day of the holiday year (MM-DD).
    "holiday_year_start": "04-01",
    "total_annual_holiday_days": 28
  },

  // ── Microsoft Graph / Outlook (wmt outlook sync) ─────────────────────────
  "outlook": {
    "tenant_id": "common",
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",
    // IANA timezone for calendar events, e.g. "Europe/London". Empty = UTC.
    "timezone": ""
  }
}
`

// Dir returns the data directory: $WMT_HOME, or ~/.wmt.
func Dir() (string, error) {
	if dir := os.Getenv("WMT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wmt"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads .env (if present), then <dir>/config.json, creating it with
// annotated defaults on first run, and finally applies WMT_* overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return defaultConfig(""), fmt.Errorf("reading .env: %w", err)
	}
	dir, err := Dir()
	if err != nil {
		return defaultConfig(""), err
	}
	cfg, err := LoadFile(dir)
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads <dir>/config.json without consulting the environment.
func LoadFile(dir string) (Config, error) {
	path := filepath.Join(dir, "config.json")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(dir), nil
	}
	if err != nil {
		return defaultConfig(dir), fmt.Errorf("reading config file %s: %w", path, err)
	}

	// Decode over the defaults so a partially filled file keeps the rest.
	cfg := defaultConfig(dir)
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return defaultConfig(dir), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	cfg.Dir = dir

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFiles
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = DefaultTenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = DefaultClientID
	}
	return cfg, nil
}

// SQLitePath returns the configured database path or the default inside Dir.
func (c Config) SQLitePath() string {
	if c.Storage.SQLitePath != "" {
		return c.Storage.SQLitePath
	}
	return filepath.Join(c.Dir, "wmt.db")
}

// applyEnv overlays WMT_* variables onto cfg.
func applyEnv(cfg *Config, getenv func(string) string) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *float64) {
		v := getenv(key)
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", key, v))
			return
		}
		*dst = f
	}

	str("WMT_STORAGE_BACKEND", &cfg.Storage.Backend)
	str("WMT_SQLITE_PATH", &cfg.Storage.SQLitePath)
	str("WMT_LOG_LEVEL", &cfg.Log.Level)
	str("WMT_LOG_FORMAT", &cfg.Log.Format)
	str("WMT_OUTLOOK_TIMEZONE", &cfg.Outlook.Timezone)
	num("WMT_CONTRACTED_HOURS_PER_WEEK", &cfg.Settings.ContractedHoursPerWeek)
	num("WMT_CONTRACTED_HOURS_PER_DAY", &cfg.Settings.ContractedHoursPerDay)
	num("WMT_ANNUAL_HOLIDAY_DAYS", &cfg.Settings.TotalAnnualHolidayDays)

	if v := getenv("WMT_MILEAGE_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("WMT_MILEAGE_RATE: %q is not a number", v))
		} else {
			cfg.Settings.MileageRate = rate
		}
	}
	if v := getenv("WMT_HOLIDAY_YEAR_START"); v != "" {
		md, err := model.ParseMonthDay(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("WMT_HOLIDAY_YEAR_START: %w", err))
		} else {
			cfg.Settings.HolidayYearStart = md
		}
	}
	return errors.Join(errs...)
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendFiles, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q: must be %q or %q", c.Storage.Backend, BackendFiles, BackendSQLite))
	}
	s := c.Settings
	if s.MileageRate.IsNegative() {
		errs = append(errs, errors.New("settings.mileage_rate must not be negative"))
	}
	if s.ContractedHoursPerWeek <= 0 {
		errs = append(errs, errors.New("settings.contracted_hours_per_week must be positive"))
	}
	if s.ContractedHoursPerDay <= 0 || s.ContractedHoursPerDay > 24 {
		errs = append(errs, errors.New("settings.contracted_hours_per_day must be between 0 and 24"))
	}
	if s.TotalAnnualHolidayDays < 0 {
		errs = append(errs, errors.New("settings.total_annual_holiday_days must not be negative"))
	}
	if s.HolidayYearStart.Month < time.January || s.HolidayYearStart.Month > time.December ||
		s.HolidayYearStart.Day < 1 || s.HolidayYearStart.Day > 31 {
		errs = append(errs, errors.New("settings.holiday_year_start is not a valid date"))
	}
	return errors.Join(errs...)
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
