package api

import (
	"github.com/JaimeStill/docket/internal/analysis"
	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/internal/fields"
	"github.com/JaimeStill/docket/internal/reconcile"
	"github.com/JaimeStill/docket/internal/settings"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Settings  settings.System
	Fields    fields.System
	Documents documents.System
	Analysis  analysis.System
	Reconcile reconcile.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	settingsSystem := settings.New(db, runtime.Logger)
	fieldsSystem := fields.New(db, runtime.Logger, runtime.Pagination)

	scorer := documents.NewScorer(settingsSystem, fieldsSystem, runtime.Logger)

	docsSystem := documents.New(
		db,
		runtime.Storage,
		scorer,
		runtime.Logger,
		runtime.Pagination,
	)

	analysisSystem := analysis.New(
		docsSystem,
		runtime.Storage,
		nil,
		runtime.Analysis,
		runtime.Logger,
	)

	reconcileSystem := reconcile.New(docsSystem, runtime.Reconcile, runtime.Logger)

	return &Domain{
		Settings:  settingsSystem,
		Fields:    fieldsSystem,
		Documents: docsSystem,
		Analysis:  analysisSystem,
		Reconcile: reconcileSystem,
	}
}
