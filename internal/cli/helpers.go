package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/privamed/smpc/pkg/config"
	"github.com/privamed/smpc/pkg/crypto/secretsharing"
	"github.com/privamed/smpc/pkg/engine"
	"github.com/privamed/smpc/pkg/store"
)

// openEngine builds an engine against the file-backed session store from
// the user's configuration.
func openEngine() (*engine.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.NewFileStore(cfg.Storage.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	sharer, err := secretsharing.DefaultRegistry.Get(secretsharing.SchemeType(cfg.Defaults.Scheme))
	if err != nil {
		return nil, fmt.Errorf("configured scheme unavailable: %w", err)
	}

	return engine.New(st,
		engine.WithLogger(newLogger(cfg)),
		engine.WithSharer(sharer),
	), nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
