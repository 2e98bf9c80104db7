package app

import (
	"context"
	"fmt"

	"github.com/empathlabs/empath/internal/archive"
	"github.com/empathlabs/empath/internal/brain"
	"github.com/empathlabs/empath/internal/config"
	"github.com/empathlabs/empath/internal/httpapi"
	"github.com/empathlabs/empath/internal/identity"
	"github.com/empathlabs/empath/internal/observability"
	"github.com/empathlabs/empath/internal/session"
)

// BuildResult bundles the wired runtime for cmd and for tests.
type BuildResult struct {
	Config  config.Config
	API     *httpapi.Server
	Session *session.Session
	Metrics *observability.Metrics

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

// Build assembles the session runtime from configuration.
func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	history, err := archive.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("archive store init failed: %w", err)
	}

	adapter, err := brain.NewAdapter(brain.Config{
		Mode:    cfg.BrainMode,
		URL:     cfg.BrainURL,
		Timeout: cfg.BrainTimeout,
	})
	if err != nil {
		_ = history.Close()
		return nil, fmt.Errorf("brain adapter init failed: %w", err)
	}

	ids := identity.NewStore(cfg.StateDir)

	opts := session.DefaultOptions()
	opts.KeepEmptyReplies = cfg.KeepEmptyReplies
	sess := session.New(ids, adapter, history, metrics, opts)

	api := httpapi.New(cfg, sess, history, metrics)

	return &BuildResult{
		Config:  cfg,
		API:     api,
		Session: sess,
		Metrics: metrics,
		Cleanup: history.Close,
	}, nil
}
