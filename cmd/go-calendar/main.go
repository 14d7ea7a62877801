package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-calendar/internal/cli"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"github.com/tartampluch/go-calendar/internal/seed"
	"github.com/tartampluch/go-calendar/internal/server"
	"github.com/tartampluch/go-calendar/internal/ui"
)

// main is the application entry point.
// os.Exit() does not run defers, so runMain returns the code first.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var logCloser io.Closer
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close() // Best effort close
		}
	}()

	err := cli.Execute(ctx, cli.App{
		Setup: func(opts cli.Options) {
			logCloser = setupLogging(opts.Debug)
			logStartupInfo()
		},
		Launch: run,
	})
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

// run initializes the Fyne application, wires dependencies, and starts the UI loop.
func run(ctx context.Context, opts cli.Options) error {
	a := app.NewWithID(config.AppID)

	// Record the version for potential migration logic in future updates.
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	// The store starts from the seed events of the session.
	clock := engine.RealClock{}
	inputs, err := seed.Load(ctx, opts.Seed, clock.Now(), seed.NewHTTPFetcher())
	if err != nil {
		return err
	}
	store := engine.NewStore()
	seed.Populate(store, inputs)

	port := a.Preferences().StringWithFallback(config.PrefServerPort, config.DefaultPort)
	srv := server.NewCalendarServer(port, store, clock)

	gui := ui.NewCalendarApp(a, ctx, store, srv)

	// Watch for context cancellation to quit the UI gracefully.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	// Blocks until the main window closes.
	gui.Run()

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return nil
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger: JSON to stdout and,
// when the cache directory is usable, to a log file truncated on start.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(appDir, config.LogFileName), nil
}
