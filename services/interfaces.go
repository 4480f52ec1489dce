package services

import (
	"context"

	"github.com/gcbaptista/go-reconcile/model"
)

// CandidateRepository resolves free text to gazetteer candidates and candidate
// ids to their full records. Implementations own transport, retries and
// timeouts; callers pass their request-scoped context unchanged.
type CandidateRepository interface {
	// SearchByText returns the candidates matching text. An empty slice means no match.
	SearchByText(ctx context.Context, text string) ([]model.CandidateSummary, error)

	// FetchRecord returns the full record of a candidate keyed by internal property key.
	FetchRecord(ctx context.Context, id string) (model.Record, error)
}

// PropertyCatalog is the read-only table of properties clients may reference
type PropertyCatalog interface {
	Lookup(propertyID string) (model.PropertyDescriptor, bool)
	List() []model.PropertyDescriptor
	Search(fragment string) []model.PropertyDescriptor
}

// Reconciler scores query batches against the gazetteer
type Reconciler interface {
	Reconcile(ctx context.Context, batch *model.QueryBatch) (*model.ScoredBatch, error)
}

// Extender fetches property values of reconciled entities
type Extender interface {
	Extend(ctx context.Context, req model.ExtendRequest) (*model.ExtendResponse, error)
}

// ReconcileService combines everything the HTTP layer needs
type ReconcileService interface {
	Reconciler
	Extender
	Catalog() PropertyCatalog
}
