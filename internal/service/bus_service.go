package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/juanraniqueo21/proyecto-buses/internal/models"
	"github.com/juanraniqueo21/proyecto-buses/internal/validation"
	appErrors "github.com/juanraniqueo21/proyecto-buses/pkg/errors"
)

const (
	statsCacheKey     = "flota:estadisticas"
	statsCachePattern = "flota:estadisticas*"

	maxSearchTermLength = 100
	defaultListLimit    = 50
	maxListLimit        = 100
)

type busRepository interface {
	Insert(ctx context.Context, bus *models.Bus) error
	FindByID(ctx context.Context, id int64) (*models.Bus, error)
	FindByPlate(ctx context.Context, plate string) (*models.Bus, error)
	ExistsByPlate(ctx context.Context, plate string, excludeID int64) (bool, error)
	List(ctx context.Context, skip, limit int) ([]models.Bus, error)
	CountActive(ctx context.Context) (int, error)
	ListByStateCode(ctx context.Context, code string) ([]models.Bus, error)
	ListByMake(ctx context.Context, substring string) ([]models.Bus, error)
	Search(ctx context.Context, term string) ([]models.Bus, error)
	Update(ctx context.Context, bus *models.Bus) error
	SoftDelete(ctx context.Context, id int64) (bool, error)
	Restore(ctx context.Context, id int64) (*models.Bus, error)
	ListDeleted(ctx context.Context) ([]models.Bus, error)
	HardDelete(ctx context.Context, id int64) (bool, error)
	ListMaintenanceDue(ctx context.Context, intervalKM int64) ([]models.Bus, error)
	CountByState(ctx context.Context) ([]models.StateCount, error)
	TotalCapacity(ctx context.Context) (int, error)
	AverageMileage(ctx context.Context) (float64, error)
}

type referenceLookup interface {
	validation.ReferenceLookup
	FindStateByCode(ctx context.Context, code string) (*models.BusState, error)
}

// CreateBusRequest captures the payload for registering a bus. Year and
// SeatCapacity stay untagged: the range checks treat zero as out of range,
// which keeps the error codes specific.
type CreateBusRequest struct {
	Plate         string           `json:"patente" validate:"required"`
	InternalCode  *string          `json:"codigo_interno" validate:"omitempty,max=50"`
	Make          string           `json:"marca" validate:"required,min=2,max=100"`
	Model         string           `json:"modelo" validate:"required,min=2,max=100"`
	Year          int              `json:"anio"`
	ChassisNumber *string          `json:"numero_chasis" validate:"omitempty,max=17"`
	EngineNumber  *string          `json:"numero_motor" validate:"omitempty,max=100"`
	StateID       int64            `json:"estado_id" validate:"required,gt=0"`
	FuelTypeID    int64            `json:"tipo_combustible_id" validate:"required,gt=0"`
	SeatCapacity  int              `json:"capacidad_sentados"`
	Mileage       *int64           `json:"kilometraje_actual"`
	PurchaseDate  *time.Time       `json:"fecha_compra"`
	PurchasePrice *decimal.Decimal `json:"precio_compra"`
	Notes         *string          `json:"observaciones" validate:"omitempty,max=1000"`
}

// UpdateBusRequest modifies a bus. Every field is optional: only supplied
// fields change, nil fields keep their stored values.
type UpdateBusRequest struct {
	Plate         *string          `json:"patente"`
	InternalCode  *string          `json:"codigo_interno" validate:"omitempty,max=50"`
	Make          *string          `json:"marca" validate:"omitempty,min=2,max=100"`
	Model         *string          `json:"modelo" validate:"omitempty,min=2,max=100"`
	Year          *int             `json:"anio"`
	ChassisNumber *string          `json:"numero_chasis" validate:"omitempty,max=17"`
	EngineNumber  *string          `json:"numero_motor" validate:"omitempty,max=100"`
	StateID       *int64           `json:"estado_id" validate:"omitempty,gt=0"`
	FuelTypeID    *int64           `json:"tipo_combustible_id" validate:"omitempty,gt=0"`
	SeatCapacity  *int             `json:"capacidad_sentados"`
	Mileage       *int64           `json:"kilometraje_actual"`
	PurchaseDate  *time.Time       `json:"fecha_compra"`
	PurchasePrice *decimal.Decimal `json:"precio_compra"`
	Notes         *string          `json:"observaciones" validate:"omitempty,max=1000"`
}

// BusService owns the bus record lifecycle: validation, uniqueness
// pre-checks, soft-delete semantics and fleet reporting.
type BusService struct {
	repo      busRepository
	refs      referenceLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger

	defaultMaintenanceKM int64
	now                  func() time.Time
}

// NewBusService creates a new bus service.
func NewBusService(repo busRepository, refs referenceLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger, defaultMaintenanceKM int64) *BusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultMaintenanceKM < validation.MinMaintenanceInterval {
		defaultMaintenanceKM = 10000
	}
	return &BusService{
		repo:                 repo,
		refs:                 refs,
		cache:                cache,
		validator:            validate,
		logger:               logger,
		defaultMaintenanceKM: defaultMaintenanceKM,
		now:                  time.Now,
	}
}

// Create validates and persists a new bus. Validation is fail-fast: the
// first violated rule aborts before any write.
func (s *BusService) Create(ctx context.Context, req CreateBusRequest) (*models.Bus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bus payload")
	}

	plate, err := validation.NormalizePlate(req.Plate)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateYear(req.Year, s.now()); err != nil {
		return nil, err
	}
	if err := validation.ValidateCapacity(req.SeatCapacity); err != nil {
		return nil, err
	}
	mileage := int64(0)
	if req.Mileage != nil {
		mileage = *req.Mileage
	}
	if err := validation.ValidateMileage(mileage); err != nil {
		return nil, err
	}
	if err := validation.ValidateReferences(ctx, req.StateID, req.FuelTypeID, s.refs); err != nil {
		return nil, err
	}

	// Courtesy pre-check for a friendly error; the unique index on patente
	// remains the final arbiter under concurrent creates.
	exists, err := s.repo.ExistsByPlate(ctx, plate, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check plate")
	}
	if exists {
		return nil, appErrors.ErrDuplicatePlate
	}

	bus := &models.Bus{
		Plate:         plate,
		InternalCode:  req.InternalCode,
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
		ChassisNumber: req.ChassisNumber,
		EngineNumber:  req.EngineNumber,
		StateID:       req.StateID,
		FuelTypeID:    req.FuelTypeID,
		SeatCapacity:  req.SeatCapacity,
		Mileage:       &mileage,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		Notes:         req.Notes,
		Active:        true,
	}

	if err := s.repo.Insert(ctx, bus); err != nil {
		if appErrors.FromError(err).Status != appErrors.ErrInternal.Status {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create bus")
	}

	s.invalidateStats(ctx)
	s.logger.Info("bus created", zap.Int64("id", bus.ID), zap.String("patente", bus.Plate))
	return bus, nil
}

// Get returns an active bus by id.
func (s *BusService) Get(ctx context.Context, id int64) (*models.Bus, error) {
	bus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bus not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bus")
	}
	return bus, nil
}

// GetByPlate returns an active bus by plate, normalizing the input first.
func (s *BusService) GetByPlate(ctx context.Context, rawPlate string) (*models.Bus, error) {
	plate, err := validation.NormalizePlate(rawPlate)
	if err != nil {
		return nil, err
	}
	bus, err := s.repo.FindByPlate(ctx, plate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bus not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bus")
	}
	return bus, nil
}

// List resolves the listing precedence (search > state > make > paged list)
// and returns the matching active buses.
func (s *BusService) List(ctx context.Context, filter models.BusFilter) ([]models.Bus, *models.Pagination, error) {
	switch {
	case filter.Search != "":
		buses, err := s.Search(ctx, filter.Search)
		return buses, nil, err
	case filter.StateCode != "":
		buses, err := s.listWrapped(s.repo.ListByStateCode(ctx, filter.StateCode))
		return buses, nil, err
	case filter.Make != "":
		buses, err := s.listWrapped(s.repo.ListByMake(ctx, filter.Make))
		return buses, nil, err
	}

	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}
	limit := filter.Limit
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}

	buses, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list buses")
	}
	return buses, &models.Pagination{Skip: skip, Limit: limit, Count: len(buses)}, nil
}

// Search matches the term across plate, make, model and internal code.
func (s *BusService) Search(ctx context.Context, term string) ([]models.Bus, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "search term must not be empty")
	}
	if len(term) > maxSearchTermLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, "search term too long")
	}
	return s.listWrapped(s.repo.Search(ctx, term))
}

// Update applies a partial modification. Only supplied fields are validated
// and written; the stored record stays untouched when any rule fails.
func (s *BusService) Update(ctx context.Context, id int64, req UpdateBusRequest) (*models.Bus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bus payload")
	}

	bus, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Plate != nil {
		plate, err := validation.NormalizePlate(*req.Plate)
		if err != nil {
			return nil, err
		}
		if plate != bus.Plate {
			exists, err := s.repo.ExistsByPlate(ctx, plate, id)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check plate")
			}
			if exists {
				return nil, appErrors.ErrDuplicatePlate
			}
		}
		bus.Plate = plate
	}
	if req.Year != nil {
		if err := validation.ValidateYear(*req.Year, s.now()); err != nil {
			return nil, err
		}
		bus.Year = *req.Year
	}
	if req.SeatCapacity != nil {
		if err := validation.ValidateCapacity(*req.SeatCapacity); err != nil {
			return nil, err
		}
		bus.SeatCapacity = *req.SeatCapacity
	}
	if req.Mileage != nil {
		if err := validation.ValidateMileage(*req.Mileage); err != nil {
			return nil, err
		}
		bus.Mileage = req.Mileage
	}
	if req.StateID != nil {
		ok, err := s.refs.StateExists(ctx, *req.StateID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bus state")
		}
		if !ok {
			return nil, appErrors.ErrUnknownState
		}
		bus.StateID = *req.StateID
	}
	if req.FuelTypeID != nil {
		ok, err := s.refs.FuelTypeExists(ctx, *req.FuelTypeID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check fuel type")
		}
		if !ok {
			return nil, appErrors.ErrUnknownFuelType
		}
		bus.FuelTypeID = *req.FuelTypeID
	}
	if req.InternalCode != nil {
		bus.InternalCode = req.InternalCode
	}
	if req.Make != nil {
		bus.Make = *req.Make
	}
	if req.Model != nil {
		bus.Model = *req.Model
	}
	if req.ChassisNumber != nil {
		bus.ChassisNumber = req.ChassisNumber
	}
	if req.EngineNumber != nil {
		bus.EngineNumber = req.EngineNumber
	}
	if req.PurchaseDate != nil {
		bus.PurchaseDate = req.PurchaseDate
	}
	if req.PurchasePrice != nil {
		bus.PurchasePrice = req.PurchasePrice
	}
	if req.Notes != nil {
		bus.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, bus); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bus not found")
		}
		if appErrors.FromError(err).Status != appErrors.ErrInternal.Status {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update bus")
	}

	s.invalidateStats(ctx)
	return bus, nil
}

// UpdateMileage sets the odometer reading of an active bus.
func (s *BusService) UpdateMileage(ctx context.Context, id, mileage int64) (*models.Bus, error) {
	if err := validation.ValidateMileage(mileage); err != nil {
		return nil, err
	}
	return s.Update(ctx, id, UpdateBusRequest{Mileage: &mileage})
}

// ChangeState moves a bus to the state identified by its short code.
func (s *BusService) ChangeState(ctx context.Context, id int64, stateCode string) (*models.Bus, error) {
	state, err := s.refs.FindStateByCode(ctx, strings.ToUpper(strings.TrimSpace(stateCode)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrUnknownState
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve bus state")
	}
	return s.Update(ctx, id, UpdateBusRequest{StateID: &state.ID})
}

// SoftDelete marks a bus inactive. False means missing or already deleted.
func (s *BusService) SoftDelete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete bus")
	}
	if deleted {
		s.invalidateStats(ctx)
		s.logger.Info("bus soft-deleted", zap.Int64("id", id))
	}
	return deleted, nil
}

// Restore reactivates a soft-deleted bus.
func (s *BusService) Restore(ctx context.Context, id int64) (*models.Bus, error) {
	bus, err := s.repo.Restore(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no soft-deleted bus with that id")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore bus")
	}
	s.invalidateStats(ctx)
	s.logger.Info("bus restored", zap.Int64("id", id))
	return bus, nil
}

// ListDeleted returns the soft-deleted records view.
func (s *BusService) ListDeleted(ctx context.Context) ([]models.Bus, error) {
	return s.listWrapped(s.repo.ListDeleted(ctx))
}

// HardDelete removes a bus permanently. Administrative use only.
func (s *BusService) HardDelete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.HardDelete(ctx, id)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete bus permanently")
	}
	if deleted {
		s.invalidateStats(ctx)
		s.logger.Warn("bus permanently deleted", zap.Int64("id", id))
	}
	return deleted, nil
}

// MaintenanceDue lists active buses inside the maintenance review window.
// A zero interval falls back to the configured fleet default.
func (s *BusService) MaintenanceDue(ctx context.Context, intervalKM int64) ([]models.Bus, error) {
	if intervalKM == 0 {
		intervalKM = s.defaultMaintenanceKM
	}
	if intervalKM < validation.MinMaintenanceInterval {
		return nil, appErrors.Clone(appErrors.ErrValidation, "maintenance interval must be at least 1000 km")
	}
	return s.listWrapped(s.repo.ListMaintenanceDue(ctx, intervalKM))
}

// Statistics aggregates the active fleet, serving from cache when possible.
func (s *BusService) Statistics(ctx context.Context) (*models.FleetStatistics, error) {
	var cached models.FleetStatistics
	if hit, _ := s.cache.Get(ctx, statsCacheKey, &cached); hit {
		return &cached, nil
	}

	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count buses")
	}
	counts, err := s.repo.CountByState(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate states")
	}
	capacity, err := s.repo.TotalCapacity(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum capacity")
	}
	avgMileage, err := s.repo.AverageMileage(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to average mileage")
	}

	byState := make(map[string]int, len(counts))
	for _, c := range counts {
		byState[c.StateName] = c.Count
	}

	stats := &models.FleetStatistics{
		Total:          total,
		ActiveByState:  byState,
		TotalCapacity:  capacity,
		AverageMileage: avgMileage,
	}

	_ = s.cache.Set(ctx, statsCacheKey, stats, 0)
	return stats, nil
}

func (s *BusService) listWrapped(buses []models.Bus, err error) ([]models.Bus, error) {
	if err != nil {
		if appErrors.FromError(err).Status != appErrors.ErrInternal.Status {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query buses")
	}
	return buses, nil
}

func (s *BusService) invalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, statsCachePattern); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
