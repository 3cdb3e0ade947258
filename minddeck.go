// Package minddeck wires the retrieval core together: storage, the
// active AI provider and the application services built on them.
package minddeck

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/minddeck/minddeck/application/service"
	"github.com/minddeck/minddeck/domain/event"
	"github.com/minddeck/minddeck/domain/memory"
	"github.com/minddeck/minddeck/infrastructure/persistence"
	"github.com/minddeck/minddeck/infrastructure/provider"
	"github.com/minddeck/minddeck/internal/config"
	"github.com/minddeck/minddeck/internal/database"
	"github.com/minddeck/minddeck/internal/log"
)

// Client is the assembled retrieval core. Construct it with New and
// release resources with Close.
type Client struct {
	Events     *service.Events
	Generation *service.Generation
	Embedding  *service.Embedding
	Retrieval  *service.Retrieval
	Brain      *service.Brain

	EventStore  event.Store
	MemoryStore memory.Store
	Settings    config.Settings

	cfg      config.AppConfig
	db       database.Database
	active   provider.Client
	fallback provider.Client
	logger   *slog.Logger
}

type options struct {
	envPath    string
	cfgOpts    []config.AppConfigOption
	logger     *slog.Logger
	active     provider.Client
	fallback   provider.Client
	settings   config.Settings
	skipDotEnv bool
}

// Option configures the client.
type Option func(*options)

// WithEnvFile points configuration loading at a specific .env file.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envPath = path }
}

// WithSQLite stores data in the given SQLite file.
func WithSQLite(path string) Option {
	return func(o *options) {
		o.cfgOpts = append(o.cfgOpts, config.WithDBURL("sqlite:///"+path))
	}
}

// WithDatabaseURL overrides the database connection URL.
func WithDatabaseURL(url string) Option {
	return func(o *options) {
		o.cfgOpts = append(o.cfgOpts, config.WithDBURL(url))
	}
}

// WithConfigOptions applies extra application configuration options on
// top of the environment-derived configuration.
func WithConfigOptions(opts ...config.AppConfigOption) Option {
	return func(o *options) { o.cfgOpts = append(o.cfgOpts, opts...) }
}

// WithLogger sets the logger; by default one is built from the
// configured level and format.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithProviderClient injects the active provider client instead of
// resolving one from settings. Intended for tests.
func WithProviderClient(client provider.Client) Option {
	return func(o *options) { o.active = client }
}

// WithEmbeddingFallbackClient injects the embedding fallback client.
// Intended for tests.
func WithEmbeddingFallbackClient(client provider.Client) Option {
	return func(o *options) { o.fallback = client }
}

// WithSettings overrides the settings lookup used for provider
// resolution. By default the database-backed settings table is
// consulted first and the environment second.
func WithSettings(settings config.Settings) Option {
	return func(o *options) { o.settings = settings }
}

// New assembles a Client: it loads configuration, opens and migrates
// the database, resolves the active provider from settings and wires
// the services. Provider resolution fails fast with a *ConfigError when
// required credentials are missing.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, envCfg, err := config.LoadConfig(o.envPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg = cfg.Apply(o.cfgOpts...)

	logger := o.logger
	if logger == nil {
		logger = log.New(os.Stderr, log.ParseFormat(cfg.LogFormat()), cfg.LogLevel())
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := database.Open(cfg.DBURL(), logger)
	if err != nil {
		return nil, err
	}
	if err := persistence.AutoMigrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	settings := o.settings
	if settings == nil {
		settings = config.Layered(persistence.NewSettingStore(db), envCfg.ToSettings())
	}

	active := o.active
	if active == nil {
		providerCfg, err := provider.FromSettings(ctx, settings)
		if err != nil {
			db.Close()
			return nil, err
		}
		active, err = provider.New(ctx, providerCfg)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	fallback := o.fallback
	if fallback == nil && !active.SupportsEmbedding() {
		fallback, err = provider.EmbeddingFallback(ctx, settings)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	embeddingModel, _, err := settings.Get(ctx, config.KeyEmbeddingModel)
	if err != nil {
		db.Close()
		return nil, err
	}

	eventStore := persistence.NewEventStore(db)
	memoryStore := persistence.NewEmbeddingStore(db, logger)

	generation := service.NewGeneration(active, logger)
	embedding := service.NewEmbedding(active, fallback, memoryStore, embeddingModel, cfg.BackfillDelay(), logger)
	retrieval := service.NewRetrieval(generation, embedding, memoryStore, cfg.SearchLimit(), logger)
	brain := service.NewBrain(generation, retrieval, cfg.AskTopK(), logger)
	events := service.NewEvents(eventStore, embedding, logger)

	return &Client{
		Events:      events,
		Generation:  generation,
		Embedding:   embedding,
		Retrieval:   retrieval,
		Brain:       brain,
		EventStore:  eventStore,
		MemoryStore: memoryStore,
		Settings:    settings,
		cfg:         cfg,
		db:          db,
		active:      active,
		fallback:    fallback,
		logger:      logger,
	}, nil
}

// Config returns the resolved application configuration.
func (c *Client) Config() config.AppConfig { return c.cfg }

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Close releases the database connection and provider clients.
func (c *Client) Close() error {
	if c.active != nil {
		if err := c.active.Close(); err != nil {
			c.logger.Warn("closing provider client", "error", err)
		}
	}
	if c.fallback != nil {
		if err := c.fallback.Close(); err != nil {
			c.logger.Warn("closing fallback provider client", "error", err)
		}
	}
	return c.db.Close()
}
