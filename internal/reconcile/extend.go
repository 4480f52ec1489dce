package reconcile

import (
	"context"

	"github.com/gcbaptista/go-reconcile/internal/catalog"
	internalErrors "github.com/gcbaptista/go-reconcile/internal/errors"
	"github.com/gcbaptista/go-reconcile/model"
)

// Extend returns the requested property values for each entity id. Every
// property id must be in the catalog. Each entity record is fetched once and
// a failed fetch fails the request.
func (s *Service) Extend(ctx context.Context, req model.ExtendRequest) (*model.ExtendResponse, error) {
	descriptors := make([]model.PropertyDescriptor, 0, len(req.Properties))
	for _, ref := range req.Properties {
		descriptor, ok := s.catalog.Lookup(ref.ID)
		if !ok {
			return nil, internalErrors.NewUnknownPropertyError(ref.ID)
		}
		descriptors = append(descriptors, descriptor)
	}

	response := &model.ExtendResponse{
		Meta: catalog.Summaries(descriptors),
		Rows: make(map[string]map[string][]model.CellValue, len(req.IDs)),
	}

	for _, id := range req.IDs {
		if _, done := response.Rows[id]; done {
			continue
		}
		record, err := s.repo.FetchRecord(ctx, id)
		if err != nil {
			return nil, internalErrors.NewRecordFetchError(id, err)
		}

		row := make(map[string][]model.CellValue, len(descriptors))
		for _, d := range descriptors {
			if value := record.Value(d.InternalKey); value != "" {
				row[d.ID] = []model.CellValue{{Str: value}}
			} else {
				row[d.ID] = []model.CellValue{}
			}
		}
		response.Rows[id] = row
	}

	s.logger.Debug("extended entities", "ids", len(req.IDs), "properties", len(descriptors))
	return response, nil
}
