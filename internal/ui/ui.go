// Package ui is the Fyne presentation layer: the month view, its agenda
// sidebar, the event dialog and the settings window.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-calendar/internal/assist"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"github.com/tartampluch/go-calendar/internal/server"
)

// CalendarApp encapsulates the UI state, preferences, and background jobs.
// Every field is owned by the Fyne main goroutine; background work hands
// results back with fyne.Do.
type CalendarApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Store  *engine.Store
	Server *server.CalendarServer
	Clock  engine.Clock // Injected clock for testability

	// NewParser builds the natural-language parser of one event dialog.
	// It is called on every dialog so a newly saved API key takes effect.
	NewParser func(ctx context.Context) *assist.Parser

	SupportedLanguages []string

	// Displayed month (zero-based) and the selected day.
	Year     int
	Month    int
	Selected time.Time

	view           *calendarView
	settingsWindow fyne.Window
	scheduler      *cron.Cron
}

// NewCalendarApp constructs the application and wires dependencies.
func NewCalendarApp(a fyne.App, ctx context.Context, store *engine.Store, srv *server.CalendarServer) *CalendarApp {
	app := &CalendarApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Store:              store,
		Server:             srv,
		Clock:              engine.RealClock{},
		SupportedLanguages: config.SupportedLanguages,
	}
	app.NewParser = app.geminiParser
	return app
}

// Run shows the main window and blocks until the application quits.
func (app *CalendarApp) Run() {
	app.SetupI18n()

	app.Window = app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window.SetContent(app.buildMainContent())
	app.Window.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	app.Window.SetMaster()
	app.GoToday()

	app.publish()
	go app.serve()

	if err := app.startScheduler(); err != nil {
		slog.Error(config.ErrCronSchedule,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err,
		)
	}
	defer app.stopScheduler()

	app.Window.ShowAndRun()
}

// serve runs the feed server until the context ends.
func (app *CalendarApp) serve() {
	if app.Server == nil {
		return
	}
	if err := app.Server.Start(app.Ctx); err != nil {
		slog.Error(config.ErrServerStartup,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompUI)

		app.App.SendNotification(fyne.NewNotification(
			config.TitleStartupError,
			fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
	}
}

// publish pushes the current store content to the ICS feed.
func (app *CalendarApp) publish() {
	if app.Server == nil {
		return
	}
	if err := app.Server.Publish(app.Store.All()); err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err,
		)
	}
}

// startScheduler registers the midnight job that moves the today marker.
func (app *CalendarApp) startScheduler() error {
	c := cron.New()
	if _, err := c.AddFunc(config.CronMidnight, app.onMidnight); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCronSchedule, err)
	}
	c.Start()
	app.scheduler = c

	slog.Info(config.MsgCronStart,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeySpec, config.CronMidnight,
	)
	return nil
}

// stopScheduler waits for a running job to finish.
func (app *CalendarApp) stopScheduler() {
	if app.scheduler == nil {
		return
	}
	<-app.scheduler.Stop().Done()
	app.scheduler = nil
	slog.Info(config.MsgCronStop, config.LogKeyComponent, config.CompWorker)
}

// onMidnight runs on the cron goroutine.
func (app *CalendarApp) onMidnight() {
	slog.Info(config.MsgMidnight, config.LogKeyComponent, config.CompWorker)
	fyne.Do(app.Refresh)
}

// geminiParser is the production NewParser.
func (app *CalendarApp) geminiParser(ctx context.Context) *assist.Parser {
	model := app.Preferences.StringWithFallback(config.PrefAIModel, config.DefaultAIModel)
	return assist.New(ctx, model, app.Locale())
}

// zone is the location of form input, the clock's own.
func (app *CalendarApp) zone() *time.Location {
	return app.Clock.Now().Location()
}

// feedURL is the subscription address of the ICS feed.
func (app *CalendarApp) feedURL() string {
	port := config.DefaultPort
	if app.Server != nil && app.Server.Port != "" {
		port = app.Server.Port
	}
	return fmt.Sprintf(config.FormatFeedURL, config.LocalhostBindAddr, port)
}
