// Package sqlite is the SQLite-backed storage.Repository.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

const entryColumns = `date, id, schools, start_time, end_time, hours_worked,
	start_location, end_location, start_mileage, end_mileage, personal_miles,
	additional_expenses, is_rebooking, is_day_off, is_working_in_lab,
	has_deliveries, comments`

// Store keeps day entries in a single SQLite database file.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

var _ storage.Repository = (*Store)(nil)

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(dbPath string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	log = log.Named("sqlite")
	log.Debug("database ready", zap.String("path", dbPath))
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (model.DayEntry, error) {
	var (
		e        model.DayEntry
		schools  string
		expenses string
		comments sql.NullString
	)
	err := row.Scan(&e.Date, &e.ID, &schools, &e.StartTime, &e.EndTime, &e.HoursWorked,
		&e.StartLocation, &e.EndLocation, &e.StartMileage, &e.EndMileage, &e.PersonalMiles,
		&expenses, &e.IsRebooking, &e.IsDayOff, &e.IsWorkingInLab,
		&e.HasDeliveries, &comments)
	if err != nil {
		return model.DayEntry{}, err
	}
	if err := json.Unmarshal([]byte(schools), &e.Schools); err != nil {
		return model.DayEntry{}, fmt.Errorf("decode schools for %s: %w", e.Date, err)
	}
	if e.AdditionalExpenses, err = decimal.NewFromString(expenses); err != nil {
		return model.DayEntry{}, fmt.Errorf("decode expenses for %s: %w", e.Date, err)
	}
	if comments.Valid {
		e.Comments = &comments.String
	}
	return e, nil
}

func (s *Store) Get(ctx context.Context, date string) (model.DayEntry, error) {
	if _, err := timecalc.ParseDate(date); err != nil {
		return model.DayEntry{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM day_entries WHERE date = ?`, date)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DayEntry{}, fmt.Errorf("%s: %w", date, storage.ErrNotFound)
	}
	if err != nil {
		return model.DayEntry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// Save upserts the entry keyed by its date.
func (s *Store) Save(ctx context.Context, e model.DayEntry) error {
	if _, err := timecalc.ParseDate(e.Date); err != nil {
		return err
	}
	schools := e.Schools
	if schools == nil {
		schools = []model.School{}
	}
	schoolsJSON, err := json.Marshal(schools)
	if err != nil {
		return fmt.Errorf("encode schools: %w", err)
	}
	var comments sql.NullString
	if e.Comments != nil {
		comments = sql.NullString{String: *e.Comments, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO day_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Date, e.ID, string(schoolsJSON), e.StartTime, e.EndTime, e.HoursWorked,
		e.StartLocation, e.EndLocation, e.StartMileage, e.EndMileage, e.PersonalMiles,
		e.AdditionalExpenses.String(), e.IsRebooking, e.IsDayOff, e.IsWorkingInLab,
		e.HasDeliveries, comments)
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	s.log.Debug("entry saved", zap.String("date", e.Date))
	return nil
}

func (s *Store) Delete(ctx context.Context, date string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM day_entries WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", date, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) Range(ctx context.Context, from, to time.Time) ([]model.DayEntry, error) {
	return s.query(ctx, `SELECT `+entryColumns+` FROM day_entries
		WHERE date BETWEEN ? AND ? ORDER BY date`,
		timecalc.FormatDate(from), timecalc.FormatDate(to))
}

func (s *Store) All(ctx context.Context) ([]model.DayEntry, error) {
	return s.query(ctx, `SELECT `+entryColumns+` FROM day_entries ORDER BY date`)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]model.DayEntry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []model.DayEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return entries, nil
}

func (s *Store) Photos(ctx context.Context) (model.TimesheetPhotos, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT week_start, uri FROM timesheet_photos`)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	defer rows.Close()

	photos := model.TimesheetPhotos{}
	for rows.Next() {
		var week, uri string
		if err := rows.Scan(&week, &uri); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos[week] = uri
	}
	return photos, rows.Err()
}

func (s *Store) SetPhoto(ctx context.Context, weekStart, uri string) error {
	if _, err := timecalc.ParseDate(weekStart); err != nil {
		return err
	}
	var err error
	if uri == "" {
		_, err = s.db.ExecContext(ctx, `DELETE FROM timesheet_photos WHERE week_start = ?`, weekStart)
	} else {
		_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO timesheet_photos (week_start, uri) VALUES (?, ?)`, weekStart, uri)
	}
	if err != nil {
		return fmt.Errorf("set photo: %w", err)
	}
	return nil
}
