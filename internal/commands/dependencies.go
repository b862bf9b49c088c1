package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/diogo/evychat/internal/api"
	"github.com/diogo/evychat/internal/config"
	apierrors "github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/history"
	"github.com/diogo/evychat/internal/logging"
	"github.com/diogo/evychat/internal/models"
	"github.com/diogo/evychat/internal/storage"
	"github.com/diogo/evychat/internal/theme"
)

// Dependencies holds everything a command needs, built once per run.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	Config config.Config
	Logger *slog.Logger

	// SessionKV holds the conversation snapshot, StateKV the theme
	SessionKV storage.KV
	StateKV   storage.KV

	Store *history.Store
	Theme *theme.Preference

	Client *api.GeminiClient
	// Session is nil when the client could not be initialized
	Session api.ChatSessionInterface
	InitErr error

	closers []io.Closer
}

// Close releases the client, stores and log file
func (d *Dependencies) Close() error {
	if d.Client != nil {
		d.Client.Close()
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// loadOptions selects which parts of Dependencies are built
type loadOptions struct {
	// client builds the Gemini client and chat session
	client bool
	// mirror copies log records to stderr when verbose
	mirror io.Writer
}

// loadDependencies is replaced in tests
var loadDependencies = defaultLoadDependencies

func defaultLoadDependencies(g *globalOptions, opts loadOptions) (*Dependencies, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := applyGlobalFlags(&cfg, g); err != nil {
		return nil, err
	}

	d := &Dependencies{Config: cfg}

	d.Logger = openLogger(cfg, opts.mirror, d)

	if g.ephemeral {
		d.SessionKV = storage.NewMemoryKV()
		d.StateKV = storage.NewMemoryKV()
	} else {
		if d.SessionKV, err = openSessionKV(cfg.Session); err != nil {
			_ = d.Close()
			return nil, err
		}
		d.StateKV = openStateKV(d.Logger)
	}
	d.closers = append(d.closers, d.SessionKV, d.StateKV)

	d.Store = history.NewStore(d.SessionKV, d.Logger)
	d.Store.Load()
	d.Theme = theme.Load(d.StateKV, d.Logger)

	if opts.client {
		d.connect()
	}

	return d, nil
}

// applyGlobalFlags overrides configuration with command-line flags
func applyGlobalFlags(cfg *config.Config, g *globalOptions) error {
	if g == nil {
		return nil
	}
	if g.model != "" {
		cfg.DefaultModel = g.model
	}
	if models.ModelFromName(cfg.DefaultModel) == models.ModelUnspecified {
		return fmt.Errorf("unknown model %q (available: %v)", cfg.DefaultModel, config.AvailableModels())
	}
	if g.session != "" {
		if _, err := config.GetSessionDir(g.session); err != nil {
			return err
		}
		cfg.Session = g.session
	}
	if g.noSearch {
		cfg.Grounding = false
	}
	if g.verbose {
		cfg.Verbose = true
	}
	return nil
}

func openLogger(cfg config.Config, mirror io.Writer, d *Dependencies) *slog.Logger {
	opts := logging.Options{Verbose: cfg.Verbose}
	if cfg.Verbose {
		opts.Mirror = mirror
	}

	path, err := config.GetLogPath()
	if err != nil {
		return logging.Discard()
	}
	logger, closer, err := logging.Open(path, opts)
	if err != nil {
		if opts.Mirror != nil {
			return logging.New(io.Discard, opts)
		}
		return logging.Discard()
	}
	d.closers = append(d.closers, closer)
	return logger
}

func openSessionKV(session string) (storage.KV, error) {
	dir, err := config.GetSessionDir(session)
	if err != nil {
		return nil, err
	}
	kv, err := storage.NewFileKV(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session %q: %w", session, err)
	}
	return kv, nil
}

// openStateKV opens the durable store. Failures fall back to memory so a
// broken database only costs the theme preference.
func openStateKV(logger *slog.Logger) storage.KV {
	path, err := config.GetStatePath()
	if err == nil {
		var kv *storage.SQLiteKV
		if kv, err = storage.OpenSQLiteKV(path); err == nil {
			return kv
		}
	}
	logger.Error("failed to open state database",
		"error", apierrors.NewPersistenceError("open", storage.KeyTheme, err))
	return storage.NewMemoryKV()
}

// connect builds the client and the long-lived chat session. Failures
// are recorded in InitErr rather than returned.
func (d *Dependencies) connect() {
	key, err := config.LoadAPIKey()
	if err != nil {
		d.InitErr = apierrors.NewInitError(err)
		d.Logger.Error("chat session unavailable", "error", d.InitErr)
		return
	}

	client, err := api.NewClient(key,
		api.WithModel(models.ModelFromName(d.Config.DefaultModel)),
		api.WithGrounding(d.Config.Grounding),
		api.WithSystemInstruction(d.Config.SystemInstruction),
		api.WithTimeout(time.Duration(d.Config.RequestTimeout)*time.Second),
		api.WithLogger(d.Logger),
	)
	if err != nil {
		d.InitErr = err
		d.Logger.Error("chat session unavailable", "error", err)
		return
	}

	d.Client = client
	d.Session = client.StartChat(
		api.WithHistory(api.TurnsFromMessages(d.Store.Snapshot())),
	)
	d.Logger.Info("chat session ready",
		"model", d.Config.DefaultModel,
		"grounding", d.Config.Grounding,
		"session", d.Config.Session)
}

// stdinIsPiped reports whether stdin is a pipe or file rather than a terminal
func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
