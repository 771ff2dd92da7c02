package api

import (
	"github.com/JaimeStill/docket/internal/analysis"
	"github.com/JaimeStill/docket/internal/config"
	"github.com/JaimeStill/docket/internal/infrastructure"
	"github.com/JaimeStill/docket/internal/reconcile"
	"github.com/JaimeStill/docket/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Analysis   analysis.Config
	Reconcile  reconcile.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Analysis: analysis.Config{
			WebhookURL:   cfg.Analysis.WebhookURL,
			CallbackURL:  cfg.Analysis.CallbackURL,
			Secret:       cfg.Analysis.Secret,
			Timeout:      cfg.Analysis.TimeoutDuration(),
			SignedURLTTL: cfg.Analysis.SignedURLTTLDuration(),
		},
		Reconcile: reconcile.Config{
			Concurrency: cfg.Reconcile.Concurrency,
			PageSize:    cfg.Reconcile.PageSize,
		},
	}
}
