package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/simartin/geoleaderboard/internal/config"
	"github.com/simartin/geoleaderboard/internal/fetch"
	"github.com/simartin/geoleaderboard/internal/leaderboard"
	"github.com/simartin/geoleaderboard/internal/logger"
)

// pipeline fetches, decodes and materializes one snapshot source
type pipeline struct {
	source       string
	loader       *fetch.Loader
	materializer *leaderboard.Materializer
	log          *logger.Logger
}

func newPipeline(cfg *config.Config, source string, log *logger.Logger) (*pipeline, error) {
	compression, err := fetch.ParseCompression(cfg.Source.Compression)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		source: source,
		loader: fetch.NewLoader(fetch.Options{
			Client:      http.DefaultClient,
			Compression: compression,
			UserAgent:   cfg.Source.UserAgent,
			Timeout:     cfg.Source.Timeout,
			Logger:      log,
		}),
		materializer: leaderboard.NewMaterializer(leaderboard.MaterializerOptions{
			ProfileURL: cfg.Display.ProfileURL,
			Logger:     log,
		}),
		log: log,
	}, nil
}

// Snapshot implements ui.Source
func (p *pipeline) Snapshot(ctx context.Context) (*leaderboard.Snapshot, error) {
	text, err := p.loader.Load(ctx, p.source)
	if err != nil {
		return nil, err
	}
	snap, err := p.materializer.Build(text)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize %s: %w", p.source, err)
	}
	return snap, nil
}

// newView creates a store rendering into a buffer, driven by a controller
func newView(cfg *config.Config, columns []leaderboard.Column, log *logger.Logger) (*leaderboard.Controller, *leaderboard.Buffer) {
	buf := &leaderboard.Buffer{}
	sorter := leaderboard.NewSorter(leaderboard.SorterOptions{Columns: columns, Locale: cfg.LocaleTag()})
	store := leaderboard.NewStore(buf, leaderboard.StoreOptions{PageSize: cfg.Display.PageSize, Sorter: sorter})
	return leaderboard.NewController(store, log), buf
}

// resolveSource returns the source argument, or the configured URL
func resolveSource(args []string, cfg *config.Config) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Source.URL
}
