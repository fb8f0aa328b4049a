package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/juanraniqueo21/proyecto-buses/internal/models"
	appErrors "github.com/juanraniqueo21/proyecto-buses/pkg/errors"
)

type referenceRepository interface {
	ListStates(ctx context.Context) ([]models.BusState, error)
	ListFuelTypes(ctx context.Context) ([]models.FuelType, error)
}

// ReferenceService exposes the read-only reference data.
type ReferenceService struct {
	repo   referenceRepository
	logger *zap.Logger
}

// NewReferenceService creates a new reference service.
func NewReferenceService(repo referenceRepository, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{repo: repo, logger: logger}
}

// ListStates returns active bus states ordered by name.
func (s *ReferenceService) ListStates(ctx context.Context) ([]models.BusState, error) {
	states, err := s.repo.ListStates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bus states")
	}
	return states, nil
}

// ListFuelTypes returns active fuel types ordered by name.
func (s *ReferenceService) ListFuelTypes(ctx context.Context) ([]models.FuelType, error) {
	fuels, err := s.repo.ListFuelTypes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fuel types")
	}
	return fuels, nil
}
