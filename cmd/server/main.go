package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-post/pkg/simplepost"
	"github.com/tendant/simple-post/pkg/simplepost/api"
	"github.com/tendant/simple-post/pkg/simplepost/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	fields := simplepost.NewFieldSet()
	simplepost.RegisterDefaultFields(fields)

	blocks := simplepost.NewBlockSet()
	simplepost.RegisterDefaultBlocks(blocks)

	types := simplepost.NewTypeSet()
	if err := cfg.LoadTypes(types); err != nil {
		logger.Error("failed to load content types", "error", err)
		os.Exit(1)
	}
	if len(types.ListTypes()) == 0 {
		types.Register(standardPostType())
	}

	ctx := context.Background()
	svc, err := cfg.BuildService(ctx, types, fields, blocks, logger)
	if err != nil {
		logger.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/api/v1", api.NewHandler(svc, fields, logger).Routes())

	logger.Info("starting simple-post server", "port", cfg.Port, "database", cfg.DatabaseType)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// standardPostType is the fallback content type registered when no types
// file is configured, mirroring a plain blog post.
func standardPostType() *simplepost.ContentType {
	return &simplepost.ContentType{
		ID:        "standard-post",
		Title:     "Standard post",
		UseBlocks: true,
		Regions: []simplepost.RegionDefinition{
			{
				ID:    "heading",
				Title: "Heading",
				Fields: []simplepost.FieldDefinition{
					{ID: "ingress", Type: simplepost.FieldTypeText, Title: "Ingress"},
				},
			},
		},
	}
}
