package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-calendar/internal/config"
)

// Fetcher retrieves a remote seed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher implements Fetcher using the standard net/http library.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a new instance of HTTPFetcher with configured timeouts.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads targetURL, which must be http or https.
// Query parameters are stripped from logs and the body is capped at config.MaxSeedSize.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug(config.MsgSeedDownload)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgSeedStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %d %s", config.ErrFetchStatus, resp.StatusCode, resp.Status)
	}

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxSeedSize),
		Closer: resp.Body,
	}, nil
}

// limitedReadCloser pairs a size-limited reader with the original body closer.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}
