package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
)

// ErrNotFound is returned when no entry exists for a date.
var ErrNotFound = errors.New("no entry for date")

// Repository persists day entries (one per date) and timesheet photo references.
type Repository interface {
	// Get returns the entry for a YYYY-MM-DD date or ErrNotFound.
	Get(ctx context.Context, date string) (model.DayEntry, error)
	// Save inserts or replaces the entry for e.Date.
	Save(ctx context.Context, e model.DayEntry) error
	// Delete removes the entry for date or returns ErrNotFound.
	Delete(ctx context.Context, date string) error
	// Range returns entries dated in [from, to] inclusive, ordered by date.
	Range(ctx context.Context, from, to time.Time) ([]model.DayEntry, error)
	// All returns every stored entry ordered by date.
	All(ctx context.Context) ([]model.DayEntry, error)

	// Photos returns the photo references keyed by week start.
	Photos(ctx context.Context) (model.TimesheetPhotos, error)
	// SetPhoto stores uri for the week starting weekStart; an empty uri clears it.
	SetPhoto(ctx context.Context, weekStart, uri string) error

	Close() error
}
