package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-post/pkg/simplepost"
	"github.com/tendant/simple-post/pkg/simplepost/repo/memory"
	repopg "github.com/tendant/simple-post/pkg/simplepost/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
	}
}

// ServerConfig represents server configuration for the simple-post service
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"` // "memory", "postgres"

	// TypesFile points to a JSON document declaring the content types to
	// register at startup. Optional; callers may register types in code.
	TypesFile string `env:"TYPES_FILE"`
}

// Validate checks the configuration for consistency.
func (c *ServerConfig) Validate() error {
	switch c.DatabaseType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database url is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
	return nil
}

// WithDatabase sets the database type and connection string.
func WithDatabase(databaseType, databaseURL string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = databaseType
		c.DatabaseURL = databaseURL
		return nil
	}
}

// WithTypesFile sets the content-type declaration file.
func WithTypesFile(path string) Option {
	return func(c *ServerConfig) error {
		c.TypesFile = path
		return nil
	}
}

// BuildRepository constructs the configured repository implementation.
func (c *ServerConfig) BuildRepository(ctx context.Context, fields simplepost.FieldRegistry) (simplepost.Repository, error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		repo := repopg.NewWithPool(pool, fields)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return memory.New(), nil
	}
}

// BuildService wires the configured repository and the given registries into
// a service instance.
func (c *ServerConfig) BuildService(
	ctx context.Context,
	types simplepost.TypeRegistry,
	fields simplepost.FieldRegistry,
	blocks simplepost.BlockRegistry,
	logger *slog.Logger,
) (simplepost.Service, error) {
	repo, err := c.BuildRepository(ctx, fields)
	if err != nil {
		return nil, err
	}
	return simplepost.New(
		simplepost.WithRepository(repo),
		simplepost.WithTypeRegistry(types),
		simplepost.WithFieldRegistry(fields),
		simplepost.WithBlockRegistry(blocks),
		simplepost.WithLogger(logger),
	)
}

// LoadTypes reads content-type declarations from the configured JSON file
// into the given registry. A missing TypesFile is a no-op.
func (c *ServerConfig) LoadTypes(types *simplepost.TypeSet) error {
	if c.TypesFile == "" {
		return nil
	}
	raw, err := os.ReadFile(c.TypesFile)
	if err != nil {
		return fmt.Errorf("read types file: %w", err)
	}
	var declared []*simplepost.ContentType
	if err := json.Unmarshal(raw, &declared); err != nil {
		return fmt.Errorf("parse types file %s: %w", c.TypesFile, err)
	}
	for _, t := range declared {
		types.Register(t)
	}
	return nil
}
