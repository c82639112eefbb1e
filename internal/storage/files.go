package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

const (
	photosFile   = "photos.json"
	loadParallel = 8
)

// FileStore keeps one human-readable JSON file per day under
// <base>/YYYY/MM/DD.json and photo references in <base>/photos.json.
type FileStore struct {
	base string
	log  *zap.Logger
}

// NewFileStore returns a store rooted at base.
func NewFileStore(base string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{base: base, log: log.Named("storage")}
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// loadDay reads the entry stored for t. It returns (nil, nil) if none exists.
func (s *FileStore) loadDay(t time.Time) (*model.DayEntry, error) {
	path := dayFilePath(s.base, t)
	return s.loadFile(path)
}

func (s *FileStore) loadFile(path string) (*model.DayEntry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var e model.DayEntry
	if err := json.Unmarshal(data, &e); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		s.log.Warn("corrupt day file backed up", zap.String("path", path), zap.String("backup", backupPath), zap.Error(err))
		return nil, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return &e, nil
}

// writeAtomic writes data to path via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, date string) (model.DayEntry, error) {
	t, err := timecalc.ParseDate(date)
	if err != nil {
		return model.DayEntry{}, err
	}
	e, err := s.loadDay(t)
	if err != nil {
		return model.DayEntry{}, err
	}
	if e == nil {
		return model.DayEntry{}, fmt.Errorf("%s: %w", date, ErrNotFound)
	}
	return *e, nil
}

// Save atomically writes the entry's day file, replacing any previous entry.
func (s *FileStore) Save(_ context.Context, e model.DayEntry) error {
	t, err := timecalc.ParseDate(e.Date)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	if err := writeAtomic(dayFilePath(s.base, t), data); err != nil {
		return err
	}
	s.log.Debug("entry saved", zap.String("date", e.Date))
	return nil
}

func (s *FileStore) Delete(_ context.Context, date string) error {
	t, err := timecalc.ParseDate(date)
	if err != nil {
		return err
	}
	err = os.Remove(dayFilePath(s.base, t))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", date, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("storage error deleting %s: %w", date, err)
	}
	return nil
}

// Range loads all entries in [from, to] inclusive.
func (s *FileStore) Range(ctx context.Context, from, to time.Time) ([]model.DayEntry, error) {
	var entries []model.DayEntry
	for d := timecalc.Date(from); !d.After(timecalc.Date(to)); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := s.loadDay(d)
		if err != nil {
			return nil, err
		}
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

// All walks the data directory and loads every day file concurrently.
func (s *FileStore) All(ctx context.Context) ([]model.DayEntry, error) {
	var paths []string
	err := filepath.WalkDir(s.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == s.base {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !isDayFile(s.base, path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage error scanning %s: %w", s.base, err)
	}

	loaded := make([]*model.DayEntry, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadParallel)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := s.loadFile(path)
			if err != nil {
				return err
			}
			loaded[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]model.DayEntry, 0, len(loaded))
	for _, e := range loaded {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	slices.SortFunc(entries, func(a, b model.DayEntry) int { return strings.Compare(a.Date, b.Date) })
	s.log.Debug("entries loaded", zap.Int("count", len(entries)))
	return entries, nil
}

// isDayFile reports whether path looks like <base>/YYYY/MM/DD.json.
func isDayFile(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 || !strings.HasSuffix(parts[2], ".json") {
		return false
	}
	date := parts[0] + "-" + parts[1] + "-" + strings.TrimSuffix(parts[2], ".json")
	_, err = timecalc.ParseDate(date)
	return err == nil
}

func (s *FileStore) Photos(_ context.Context) (model.TimesheetPhotos, error) {
	path := filepath.Join(s.base, photosFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.TimesheetPhotos{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	photos := model.TimesheetPhotos{}
	if err := json.Unmarshal(data, &photos); err != nil {
		return nil, fmt.Errorf("corrupt JSON in %s: %w", path, err)
	}
	return photos, nil
}

func (s *FileStore) SetPhoto(ctx context.Context, weekStart, uri string) error {
	if _, err := timecalc.ParseDate(weekStart); err != nil {
		return err
	}
	current, err := s.Photos(ctx)
	if err != nil {
		return err
	}
	updated := model.TimesheetPhotos{}
	maps.Copy(updated, current)
	if uri == "" {
		delete(updated, weekStart)
	} else {
		updated[weekStart] = uri
	}
	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	return writeAtomic(filepath.Join(s.base, photosFile), data)
}

func (s *FileStore) Close() error { return nil }
