package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/maxWiklund/txConverter/internal/adapters/filesystem"
	"github.com/maxWiklund/txConverter/internal/adapters/history"
	"github.com/maxWiklund/txConverter/internal/adapters/maketx"
	"github.com/maxWiklund/txConverter/internal/application"
	"github.com/maxWiklund/txConverter/internal/config"
)

// AppOptions carries the command line overrides applied on top of the
// config file
type AppOptions struct {
	ConfigPath string
	Tool       string
	Gamma      *bool // nil keeps the configured default
	Verbose    bool
	Console    bool // also log to stderr
}

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Log        *slog.Logger
	Discoverer *filesystem.Discoverer
	Runner     *maketx.Runner
	Reports    *history.FileStore
	Tool       string

	ScanSvc    *application.ScanService
	ConvertSvc *application.ConvertService
	HistorySvc *application.HistoryService

	logFile io.Closer
}

// NewApp creates and wires up all dependencies
func NewApp(opts AppOptions) (*App, error) {
	// Ensure directories exist
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.Gamma != nil {
		cfg.Defaults.Gamma = *opts.Gamma
	}

	log, logFile, err := newLogger(cfg, opts)
	if err != nil {
		return nil, err
	}

	// Create adapters
	discoverer := filesystem.NewDiscoverer(nil,
		filesystem.WithExtensions(cfg.Scan.Extensions),
		filesystem.WithExcludeDirs(cfg.Scan.ExcludeDirs),
	)

	tool := opts.Tool
	runner := maketx.NewRunner(cfg.Paths.MakeTx)
	if tool != "" {
		runner = maketx.NewRunner(tool)
	} else {
		tool = runner.Tool()
	}

	retention, err := cfg.GetRetention()
	if err != nil {
		logFile.Close()
		return nil, err
	}
	reports := history.NewFileStore(nil, config.HistoryDir(), retention).
		WithLock(config.HistoryLockPath())

	// Clean expired reports on startup
	if n, err := reports.CleanExpired(context.Background()); err != nil {
		log.Warn("failed to clean batch history", "error", err)
	} else if n > 0 {
		log.Debug("removed expired batch reports", "count", n)
	}

	// Create services
	scanSvc := application.NewScanService(discoverer, application.ScanOptions{
		Tool:      tool,
		TargetExt: cfg.Defaults.TargetExt,
		Gamma:     cfg.Defaults.Gamma,
	}, log)
	convertSvc := application.NewConvertService(runner, log).WithReports(reports)
	historySvc := application.NewHistoryService(reports)

	return &App{
		Config:     cfg,
		Log:        log,
		Discoverer: discoverer,
		Runner:     runner,
		Reports:    reports,
		Tool:       tool,
		ScanSvc:    scanSvc,
		ConvertSvc: convertSvc,
		HistorySvc: historySvc,
		logFile:    logFile,
	}, nil
}

// Close releases the log file
func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}

// newLogger writes to the log file and, for console runs, to stderr.
// The interactive browser owns the terminal so it never logs to stderr.
func newLogger(cfg *config.Config, opts AppOptions) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	file, err := os.OpenFile(config.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var w io.Writer = file
	if opts.Console {
		w = io.MultiWriter(file, os.Stderr)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), file, nil
}
