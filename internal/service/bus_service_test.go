package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanraniqueo21/proyecto-buses/internal/models"
	appErrors "github.com/juanraniqueo21/proyecto-buses/pkg/errors"
)

type mockBusRepo struct {
	buses  map[int64]models.Bus
	nextID int64

	lastMaintenanceInterval int64
	stateCounts             []models.StateCount
	totalCapacity           int
	avgMileage              float64
}

func newMockBusRepo() *mockBusRepo {
	return &mockBusRepo{buses: make(map[int64]models.Bus), nextID: 1}
}

func (m *mockBusRepo) Insert(ctx context.Context, bus *models.Bus) error {
	bus.ID = m.nextID
	m.nextID++
	m.buses[bus.ID] = *bus
	return nil
}

func (m *mockBusRepo) FindByID(ctx context.Context, id int64) (*models.Bus, error) {
	if b, ok := m.buses[id]; ok && b.Active {
		return &b, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBusRepo) FindByPlate(ctx context.Context, plate string) (*models.Bus, error) {
	for _, b := range m.buses {
		if b.Active && b.Plate == plate {
			return &b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockBusRepo) ExistsByPlate(ctx context.Context, plate string, excludeID int64) (bool, error) {
	for _, b := range m.buses {
		if b.Active && b.Plate == plate && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBusRepo) List(ctx context.Context, skip, limit int) ([]models.Bus, error) {
	var out []models.Bus
	for id := int64(1); id < m.nextID; id++ {
		if b, ok := m.buses[id]; ok && b.Active {
			out = append(out, b)
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockBusRepo) CountActive(ctx context.Context) (int, error) {
	total := 0
	for _, b := range m.buses {
		if b.Active {
			total++
		}
	}
	return total, nil
}

func (m *mockBusRepo) ListByStateCode(ctx context.Context, code string) ([]models.Bus, error) {
	return nil, nil
}

func (m *mockBusRepo) ListByMake(ctx context.Context, substring string) ([]models.Bus, error) {
	return nil, nil
}

func (m *mockBusRepo) Search(ctx context.Context, term string) ([]models.Bus, error) {
	return nil, nil
}

func (m *mockBusRepo) Update(ctx context.Context, bus *models.Bus) error {
	stored, ok := m.buses[bus.ID]
	if !ok || !stored.Active {
		return sql.ErrNoRows
	}
	bus.UpdatedAt = time.Now().UTC()
	m.buses[bus.ID] = *bus
	return nil
}

func (m *mockBusRepo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	b, ok := m.buses[id]
	if !ok || !b.Active {
		return false, nil
	}
	b.Active = false
	m.buses[id] = b
	return true, nil
}

func (m *mockBusRepo) Restore(ctx context.Context, id int64) (*models.Bus, error) {
	b, ok := m.buses[id]
	if !ok || b.Active {
		return nil, sql.ErrNoRows
	}
	b.Active = true
	m.buses[id] = b
	return &b, nil
}

func (m *mockBusRepo) ListDeleted(ctx context.Context) ([]models.Bus, error) {
	var out []models.Bus
	for _, b := range m.buses {
		if !b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBusRepo) HardDelete(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.buses[id]; !ok {
		return false, nil
	}
	delete(m.buses, id)
	return true, nil
}

func (m *mockBusRepo) ListMaintenanceDue(ctx context.Context, intervalKM int64) ([]models.Bus, error) {
	m.lastMaintenanceInterval = intervalKM
	var out []models.Bus
	for _, b := range m.buses {
		if b.Active && b.Mileage != nil && *b.Mileage%intervalKM < 1000 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBusRepo) CountByState(ctx context.Context) ([]models.StateCount, error) {
	return m.stateCounts, nil
}

func (m *mockBusRepo) TotalCapacity(ctx context.Context) (int, error) {
	return m.totalCapacity, nil
}

func (m *mockBusRepo) AverageMileage(ctx context.Context) (float64, error) {
	return m.avgMileage, nil
}

type mockRefs struct {
	states map[int64]bool
	fuels  map[int64]bool
	byCode map[string]*models.BusState
}

func newMockRefs() *mockRefs {
	return &mockRefs{
		states: map[int64]bool{1: true, 2: true},
		fuels:  map[int64]bool{1: true},
		byCode: map[string]*models.BusState{
			"ACT": {ID: 1, Code: "ACT", Name: "Activo", AllowsAssignment: true},
			"MAN": {ID: 2, Code: "MAN", Name: "Mantenimiento"},
		},
	}
}

func (m *mockRefs) StateExists(ctx context.Context, id int64) (bool, error) {
	return m.states[id], nil
}

func (m *mockRefs) FuelTypeExists(ctx context.Context, id int64) (bool, error) {
	return m.fuels[id], nil
}

func (m *mockRefs) FindStateByCode(ctx context.Context, code string) (*models.BusState, error) {
	if s, ok := m.byCode[code]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func newTestBusService(repo *mockBusRepo) *BusService {
	svc := NewBusService(repo, newMockRefs(), nil, nil, nil, 10000)
	svc.now = func() time.Time { return time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func validCreateRequest() CreateBusRequest {
	return CreateBusRequest{
		Plate:        "BCDF21",
		Make:         "Mercedes Benz",
		Model:        "O500",
		Year:         2019,
		StateID:      1,
		FuelTypeID:   1,
		SeatCapacity: 42,
	}
}

func TestBusServiceCreate(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	bus, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), bus.ID)
	assert.Equal(t, "BCDF21", bus.Plate)
	assert.True(t, bus.Active)
	require.NotNil(t, bus.Mileage)
	assert.Equal(t, int64(0), *bus.Mileage)
}

func TestBusServiceCreateNormalizesPlate(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	req := validCreateRequest()
	req.Plate = "  ab-cd 12  "
	bus, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ABCD12", bus.Plate)
}

func TestBusServiceCreateDuplicatePlateAfterNormalization(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	req := validCreateRequest()
	req.Plate = "ABCD-12"
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	req.Plate = "abcd 12"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrDuplicatePlate)
	assert.Len(t, repo.buses, 1)
}

func TestBusServiceCreateCapacityBounds(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	for i, capacity := range []int{0, -1, 46, 100} {
		req := validCreateRequest()
		req.Plate = "BCDF2" + string(rune('1'+i))
		req.SeatCapacity = capacity
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, appErrors.ErrInvalidCapacity, "capacity %d", capacity)
	}

	req := validCreateRequest()
	req.SeatCapacity = 1
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	req = validCreateRequest()
	req.Plate = "FGHJ44"
	req.SeatCapacity = 45
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestBusServiceCreateYearBounds(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	req := validCreateRequest()
	req.Year = 1979
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrInvalidYear)

	// zero must surface as a year-range failure, not a generic payload error
	req = validCreateRequest()
	req.Year = 0
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrInvalidYear)

	// now is pinned to 2026, so 2027 is the last acceptable model year
	req = validCreateRequest()
	req.Year = 2028
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrInvalidYear)

	req = validCreateRequest()
	req.Year = 2027
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestBusServiceCreateUnknownReferences(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	req := validCreateRequest()
	req.StateID = 99
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrUnknownState)

	req = validCreateRequest()
	req.FuelTypeID = 99
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrUnknownFuelType)
	assert.Empty(t, repo.buses)
}

func TestBusServiceCreateNegativeMileage(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	km := int64(-5)
	req := validCreateRequest()
	req.Mileage = &km
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBusServiceCreateMissingFields(t *testing.T) {
	svc := newTestBusService(newMockBusRepo())

	_, err := svc.Create(context.Background(), CreateBusRequest{Plate: "BCDF21"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBusServiceGetByPlateNormalizesInput(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	bus, err := svc.GetByPlate(context.Background(), "bc-df 21")
	require.NoError(t, err)
	assert.Equal(t, "BCDF21", bus.Plate)
}

func TestBusServiceGetNotFound(t *testing.T) {
	svc := newTestBusService(newMockBusRepo())

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestBusServiceUpdateInvalidCapacityLeavesRecordUnchanged(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	capacity := 50
	_, err = svc.Update(context.Background(), created.ID, UpdateBusRequest{SeatCapacity: &capacity})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCapacity)

	stored, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, stored.SeatCapacity)
}

func TestBusServiceUpdatePartial(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	newModel := "O500U"
	updated, err := svc.Update(context.Background(), created.ID, UpdateBusRequest{Model: &newModel})
	require.NoError(t, err)
	assert.Equal(t, "O500U", updated.Model)
	assert.Equal(t, created.Plate, updated.Plate)
	assert.Equal(t, created.SeatCapacity, updated.SeatCapacity)
}

func TestBusServiceUpdatePlateConflict(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	first, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	req := validCreateRequest()
	req.Plate = "FGHJ44"
	second, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	taken := first.Plate
	_, err = svc.Update(context.Background(), second.ID, UpdateBusRequest{Plate: &taken})
	assert.ErrorIs(t, err, appErrors.ErrDuplicatePlate)

	// resubmitting its own plate is not a conflict
	own := second.Plate
	_, err = svc.Update(context.Background(), second.ID, UpdateBusRequest{Plate: &own})
	require.NoError(t, err)
}

func TestBusServiceUpdateMileage(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateMileage(context.Background(), created.ID, 120000)
	require.NoError(t, err)
	require.NotNil(t, updated.Mileage)
	assert.Equal(t, int64(120000), *updated.Mileage)

	_, err = svc.UpdateMileage(context.Background(), created.ID, -1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBusServiceChangeState(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.ChangeState(context.Background(), created.ID, " man ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.StateID)

	_, err = svc.ChangeState(context.Background(), created.ID, "XYZ")
	assert.ErrorIs(t, err, appErrors.ErrUnknownState)
}

func TestBusServiceSoftDeleteAndRestore(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	deleted, err := svc.SoftDelete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// the record vanishes from normal reads but stays recoverable
	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)

	trash, err := svc.ListDeleted(context.Background())
	require.NoError(t, err)
	assert.Len(t, trash, 1)

	deleted, err = svc.SoftDelete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	restored, err := svc.Restore(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, restored.Active)

	_, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
}

func TestBusServiceRestoreMissing(t *testing.T) {
	svc := newTestBusService(newMockBusRepo())

	_, err := svc.Restore(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBusServiceHardDelete(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	deleted, err := svc.HardDelete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, repo.buses)

	deleted, err = svc.HardDelete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestBusServiceMaintenanceDue(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	km := int64(30500)
	req := validCreateRequest()
	req.Mileage = &km
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	due, err := svc.MaintenanceDue(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), repo.lastMaintenanceInterval)
	assert.Len(t, due, 1)

	_, err = svc.MaintenanceDue(context.Background(), 500)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBusServiceStatisticsEmptyFleet(t *testing.T) {
	repo := newMockBusRepo()
	repo.stateCounts = []models.StateCount{
		{StateName: "Activo", Count: 0},
		{StateName: "Mantenimiento", Count: 0},
	}
	svc := newTestBusService(repo)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.TotalCapacity)
	assert.Equal(t, float64(0), stats.AverageMileage)
	// zero-count states still appear in the breakdown
	assert.Equal(t, map[string]int{"Activo": 0, "Mantenimiento": 0}, stats.ActiveByState)
}

func TestBusServiceSearchTermValidation(t *testing.T) {
	svc := newTestBusService(newMockBusRepo())

	_, err := svc.Search(context.Background(), "   ")
	require.Error(t, err)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Search(context.Background(), string(long))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBusServiceListPaginationDefaults(t *testing.T) {
	repo := newMockBusRepo()
	svc := newTestBusService(repo)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	buses, page, err := svc.List(context.Background(), models.BusFilter{Skip: -5, Limit: 0})
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, 0, page.Skip)
	assert.Equal(t, 50, page.Limit)
	assert.Equal(t, 1, page.Count)
	assert.Len(t, buses, 1)
}
