package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"github.com/zalando/go-keyring"
	"google.golang.org/api/option"
)

// StoredAPIKey returns the Gemini key saved in the OS keyring.
func StoredAPIKey() (string, error) {
	key, err := keyring.Get(config.KeyringService, config.KeyringAccountAI)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrKeyringRead, err)
	}
	return key, nil
}

// APIKey returns the Gemini key stored in the OS keyring, falling back to
// the GEMINI_API_KEY then API_KEY environment variables.
func APIKey() string {
	key, err := StoredAPIKey()
	if err == nil && key != "" {
		return key
	}
	slog.Debug(config.MsgKeyMissing,
		config.LogKeyComponent, config.CompAssist,
		config.LogKeyError, err,
	)

	for _, env := range []string{config.EnvAIKey, config.EnvAIKeyLegacy} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}

// SaveAPIKey stores key in the OS keyring. An empty key removes the entry.
func SaveAPIKey(key string) error {
	if key == "" {
		err := keyring.Delete(config.KeyringService, config.KeyringAccountAI)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%s: %w", config.ErrKeyringWrite, err)
		}
		return nil
	}
	if err := keyring.Set(config.KeyringService, config.KeyringAccountAI, key); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringWrite, err)
	}
	return nil
}

// New builds a parser backed by Gemini when a key is available.
// Without a key, or if the client cannot be created, the parser reports
// ErrUnavailable on every call.
func New(ctx context.Context, model string, loc engine.Locale, opts ...option.ClientOption) *Parser {
	key := APIKey()
	if key == "" {
		return NewParser(nil, loc)
	}

	gen, err := NewGeminiGenerator(ctx, key, model, opts...)
	if err != nil {
		slog.Error(config.ErrAIClient,
			config.LogKeyComponent, config.CompAssist,
			config.LogKeyModel, model,
			config.LogKeyError, err,
		)
		return NewParser(nil, loc)
	}
	return NewParser(gen, loc)
}
