package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/work-mileage-tracker/internal/config"
	"github.com/Tiliavir/work-mileage-tracker/internal/logger"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage/sqlite"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

// Exit codes: 1 for invalid input, 2 for storage or I/O failures.
const (
	exitUser    = 1
	exitStorage = 2
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userErr(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitUser, err: err}
}

func userErrf(format string, args ...any) error {
	return userErr(fmt.Errorf(format, args...))
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitStorage, err: err}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUser
}

// app bundles what every command needs: configuration, logger and storage.
type app struct {
	cfg  config.Config
	log  *zap.Logger
	repo storage.Repository
}

func (a *app) settings() model.AppSettings { return a.cfg.Settings }

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		a.log.Warn("closing storage", zap.Error(err))
	}
	_ = a.log.Sync()
}

// openApp loads configuration and opens the configured storage backend.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, userErr(err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, userErr(err)
	}
	repo, err := openRepository(cfg, log)
	if err != nil {
		return nil, storageErr(err)
	}
	log.Debug("storage opened", zap.String("backend", cfg.Storage.Backend), zap.String("dir", cfg.Dir))
	return &app{cfg: cfg, log: log, repo: repo}, nil
}

func openRepository(cfg config.Config, log *zap.Logger) (storage.Repository, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return sqlite.Open(cfg.SQLitePath(), log)
	case config.BackendFiles, "":
		return storage.NewFileStore(cfg.Dir, log), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

// withApp adapts a command body that needs an app into a cobra RunE.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}

// parseDay accepts YYYY-MM-DD, "today", "yesterday" or "" (today).
func parseDay(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return timecalc.Date(now), nil
	case "yesterday":
		return timecalc.Date(now).AddDate(0, 0, -1), nil
	}
	d, err := timecalc.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, userErr(err)
	}
	return d, nil
}

// clockNow formats the current local time as HH:MM.
func clockNow(now time.Time) string {
	return now.Format("15:04")
}
