// Package reconcile dispatches reconciliation queries to the right scorer and
// serves property extension for already reconciled entities.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	internalErrors "github.com/gcbaptista/go-reconcile/internal/errors"
	"github.com/gcbaptista/go-reconcile/internal/metrics"
	"github.com/gcbaptista/go-reconcile/internal/scoring"
	"github.com/gcbaptista/go-reconcile/model"
	"github.com/gcbaptista/go-reconcile/services"
)

// DefaultMaxParallelQueries bounds how many queries of one batch run at once
const DefaultMaxParallelQueries = 8

// Options configures a Service
type Options struct {
	MaxParallelQueries int
	Logger             *log.Logger
}

// Service implements services.ReconcileService on top of a candidate repository
type Service struct {
	repo        services.CandidateRepository
	catalog     services.PropertyCatalog
	scorer      *scoring.PropertyScorer
	maxParallel int
	logger      *log.Logger
}

// NewService creates a reconciliation service. The catalog is only read.
func NewService(repo services.CandidateRepository, catalog services.PropertyCatalog, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	maxParallel := opts.MaxParallelQueries
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallelQueries
	}
	return &Service{
		repo:        repo,
		catalog:     catalog,
		scorer:      scoring.NewPropertyScorer(repo, catalog, logger),
		maxParallel: maxParallel,
		logger:      logger,
	}
}

// Catalog returns the property catalog the service scores against
func (s *Service) Catalog() services.PropertyCatalog {
	return s.catalog
}

// ReconcileQuery scores a single query. Queries with property constraints go
// to the property scorer, the others to the name-only scorer. A failed text
// search yields no candidates rather than an error.
func (s *Service) ReconcileQuery(ctx context.Context, q model.Query) ([]model.MatchResult, error) {
	candidates := s.searchCandidates(ctx, q.Text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !q.HasConstraints() {
		metrics.RecordQuery(model.RoutingNameOnly)
		s.logger.Debug("name-only query", "query", q.Text, "candidates", len(candidates))
		return scoring.NameOnly(candidates), nil
	}

	metrics.RecordQuery(model.RoutingConstrained)
	s.logger.Debug("constrained query", "query", q.Text, "candidates", len(candidates), "constraints", len(q.Properties))
	return s.scorer.Score(ctx, candidates, q.Properties)
}

func (s *Service) searchCandidates(ctx context.Context, text string) []model.CandidateSummary {
	candidates, err := s.repo.SearchByText(ctx, text)
	if err != nil {
		s.logger.Warn("candidate search failed, treating as no candidates", "query", text, "err", err)
		return []model.CandidateSummary{}
	}
	return candidates
}

// validateBatch rejects malformed batches and unknown property ids before
// any gazetteer call is made
func (s *Service) validateBatch(batch *model.QueryBatch) error {
	if batch == nil {
		return internalErrors.NewValidationError("queries", "query batch is required")
	}
	if problems := batch.Validate(); len(problems) > 0 {
		messages := make([]string, len(problems))
		for i, p := range problems {
			messages[i] = p.String()
		}
		return internalErrors.NewValidationError("queries", strings.Join(messages, "; "))
	}
	for _, key := range batch.Keys {
		for _, pc := range batch.Queries[key].Properties {
			if _, ok := s.catalog.Lookup(pc.PropertyID); !ok {
				return fmt.Errorf("query '%s': %w", key, internalErrors.NewUnknownPropertyError(pc.PropertyID))
			}
		}
	}
	return nil
}
