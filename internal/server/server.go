package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// GridSource provides the month grid served on /api/grid.
// *engine.Store implements it.
type GridSource interface {
	Grid(year, month int, now time.Time) []engine.Day
}

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// CalendarServer publishes the session's events on localhost: the ICS feed,
// a JSON month grid and a health probe.
type CalendarServer struct {
	// cache uses atomic.Pointer for lock-free reads; it is replaced on every
	// Publish while HTTP goroutines read it.
	cache atomic.Pointer[cacheItem]
	Port  string

	Source GridSource
	Clock  engine.Clock
}

// NewCalendarServer creates a new instance of the server.
func NewCalendarServer(port string, src GridSource, clock engine.Clock) *CalendarServer {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &CalendarServer{
		Port:   port,
		Source: src,
		Clock:  clock,
	}
}

// Handler returns the routing table.
func (s *CalendarServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteCalendar, s.handleCalendarRequest)
	mux.HandleFunc(config.RouteGrid, s.handleGridRequest)
	mux.HandleFunc(config.RouteHealth, s.handleHealth)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Publish renders events as iCalendar and swaps the served feed.
func (s *CalendarServer) Publish(events []engine.Event) error {
	data, err := engine.ExportICS(events, s.Clock.Now())
	if err != nil {
		return err
	}
	s.Update(data)
	return nil
}

// Update atomically replaces the served content.
func (s *CalendarServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	item := &cacheItem{
		data:         data,
		etag:         etag,
		lastModified: s.Clock.Now().UTC().Format(http.TimeFormat),
	}

	// Readers see either the old or the new complete item, never a partial state.
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *CalendarServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// handleGridRequest serves the 42-cell grid of ?year=YYYY&month=M (zero-based).
// Missing parameters default to the current month.
func (s *CalendarServer) handleGridRequest(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	now := s.Clock.Now()
	year, month := now.Year(), engine.ZeroBasedMonth(now)
	q := r.URL.Query()

	if v := q.Get(config.QueryYear); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < config.MinGridYear || y > config.MaxGridYear {
			writeError(w, http.StatusBadRequest, config.ErrQueryYear)
			return
		}
		year = y
	}
	if v := q.Get(config.QueryMonth); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 0 || m > 11 {
			writeError(w, http.StatusBadRequest, config.ErrQueryMonth)
			return
		}
		month = m
	}

	var grid []engine.Day
	if s.Source != nil {
		grid = s.Source.Grid(year, month, now)
	} else {
		grid = engine.BuildGrid(year, month, nil, now)
	}

	slog.Debug(config.MsgGridServed,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyYear, year,
		config.LogKeyMonth, month,
	)

	writeJSON(w, http.StatusOK, gridResponse{Year: year, Month: month, Days: grid})
}

func (s *CalendarServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	_, _ = io.WriteString(w, config.HTTPMsgHealthy)
}

type gridResponse struct {
	Year  int          `json:"year"`
	Month int          `json:"month"`
	Days  []engine.Day `json:"days"`
}

// allowRead rejects everything but GET and HEAD.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	return false
}

// writeJSON encodes v before committing the status, so an encoding failure
// becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error(config.ErrJSONEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeJSONUTF8)
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
