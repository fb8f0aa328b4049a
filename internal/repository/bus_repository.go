package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/juanraniqueo21/proyecto-buses/internal/models"
	appErrors "github.com/juanraniqueo21/proyecto-buses/pkg/errors"
)

// MaintenanceWindowKM is the width of the review window: a bus is due when
// its odometer modulo the service interval falls inside this many km.
const MaintenanceWindowKM = 1000

const busColumns = `id, patente, codigo_interno, marca, modelo, anio, numero_chasis, numero_motor, estado_id, tipo_combustible_id, capacidad_sentados, kilometraje_actual, fecha_compra, precio_compra, observaciones, esta_activo, fecha_creacion, fecha_actualizacion`

const uniqueViolation = "23505"

// BusRepository is the sole mediator between the bus domain model and the
// buses table. Every normal read filters on esta_activo = TRUE; inactive
// rows are reachable only through the deleted view and Restore.
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new repository instance.
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// mapConstraintError turns a Postgres unique violation into the matching
// domain error. The storage-level index is the final arbiter for races the
// Exists pre-checks cannot catch.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case "buses_patente_key":
		return appErrors.ErrDuplicatePlate
	case "buses_codigo_interno_key":
		return appErrors.Clone(appErrors.ErrConflict, "internal code already in use")
	case "buses_numero_chasis_key":
		return appErrors.Clone(appErrors.ErrConflict, "chassis number already in use")
	default:
		return appErrors.Clone(appErrors.ErrConflict, "unique constraint violated")
	}
}

// Insert persists a new bus and fills in the store-assigned id.
func (r *BusRepository) Insert(ctx context.Context, bus *models.Bus) error {
	now := time.Now().UTC()
	bus.CreatedAt = now
	bus.UpdatedAt = now
	bus.Active = true

	const query = `INSERT INTO buses (patente, codigo_interno, marca, modelo, anio, numero_chasis, numero_motor, estado_id, tipo_combustible_id, capacidad_sentados, kilometraje_actual, fecha_compra, precio_compra, observaciones, esta_activo, fecha_creacion, fecha_actualizacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		bus.Plate, bus.InternalCode, bus.Make, bus.Model, bus.Year,
		bus.ChassisNumber, bus.EngineNumber, bus.StateID, bus.FuelTypeID,
		bus.SeatCapacity, bus.Mileage, bus.PurchaseDate, bus.PurchasePrice,
		bus.Notes, bus.Active, bus.CreatedAt, bus.UpdatedAt,
	).Scan(&bus.ID)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert bus: %w", err)
	}
	return nil
}

// FindByID returns an active bus by id.
func (r *BusRepository) FindByID(ctx context.Context, id int64) (*models.Bus, error) {
	query := fmt.Sprintf("SELECT %s FROM buses WHERE id = $1 AND esta_activo = TRUE", busColumns)
	var bus models.Bus
	if err := r.db.GetContext(ctx, &bus, query, id); err != nil {
		return nil, err
	}
	return &bus, nil
}

// FindByPlate returns an active bus by its normalized plate.
func (r *BusRepository) FindByPlate(ctx context.Context, plate string) (*models.Bus, error) {
	query := fmt.Sprintf("SELECT %s FROM buses WHERE patente = $1 AND esta_activo = TRUE", busColumns)
	var bus models.Bus
	if err := r.db.GetContext(ctx, &bus, query, plate); err != nil {
		return nil, err
	}
	return &bus, nil
}

// ExistsByPlate checks plate uniqueness among active buses, optionally
// excluding one record (the one being updated).
func (r *BusRepository) ExistsByPlate(ctx context.Context, plate string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM buses WHERE patente = $1 AND esta_activo = TRUE"
	args := []interface{}{plate}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check plate: %w", err)
	}
	return true, nil
}

// List returns active buses ordered by id with offset pagination.
func (r *BusRepository) List(ctx context.Context, skip, limit int) ([]models.Bus, error) {
	query := fmt.Sprintf("SELECT %s FROM buses WHERE esta_activo = TRUE ORDER BY id ASC LIMIT $1 OFFSET $2", busColumns)
	var buses []models.Bus
	if err := r.db.SelectContext(ctx, &buses, query, limit, skip); err != nil {
		return nil, fmt.Errorf("list buses: %w", err)
	}
	return buses, nil
}

// CountActive counts active buses.
func (r *BusRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM buses WHERE esta_activo = TRUE`); err != nil {
		return 0, fmt.Errorf("count buses: %w", err)
	}
	return total, nil
}

// ListByStateCode returns active buses whose state carries the given code.
func (r *BusRepository) ListByStateCode(ctx context.Context, code string) ([]models.Bus, error) {
	query := fmt.Sprintf(`SELECT %s FROM buses b JOIN estados_buses e ON e.id = b.estado_id WHERE e.codigo = $1 AND b.esta_activo = TRUE ORDER BY b.id ASC`, prefixColumns("b"))
	var buses []models.Bus
	if err := r.db.SelectContext(ctx, &buses, query, code); err != nil {
		return nil, fmt.Errorf("list buses by state: %w", err)
	}
	return buses, nil
}

// ListByMake returns active buses whose make contains the substring,
// case-insensitive.
func (r *BusRepository) ListByMake(ctx context.Context, substring string) ([]models.Bus, error) {
	query := fmt.Sprintf("SELECT %s FROM buses WHERE esta_activo = TRUE AND LOWER(marca) LIKE $1 ORDER BY id ASC", busColumns)
	var buses []models.Bus
	if err := r.db.SelectContext(ctx, &buses, query, "%"+strings.ToLower(substring)+"%"); err != nil {
		return nil, fmt.Errorf("list buses by make: %w", err)
	}
	return buses, nil
}

// Search matches the term against plate, make, model and internal code,
// case-insensitive, each bus at most once.
func (r *BusRepository) Search(ctx context.Context, term string) ([]models.Bus, error) {
	query := fmt.Sprintf(`SELECT %s FROM buses WHERE esta_activo = TRUE AND (LOWER(patente) LIKE $1 OR LOWER(marca) LIKE $1 OR LOWER(modelo) LIKE $1 OR LOWER(COALESCE(codigo_interno, '')) LIKE $1) ORDER BY id ASC`, busColumns)
	var buses []models.Bus
	if err := r.db.SelectContext(ctx, &buses, query, "%"+strings.ToLower(term)+"%"); err != nil {
		return nil, fmt.Errorf("search buses: %w", err)
	}
	return buses, nil
}

// Update writes the full merged row in one statement; the service composes
// the partial input onto the stored record beforehand. Touches
// fecha_actualizacion, leaves soft-deleted rows untouched.
func (r *BusRepository) Update(ctx context.Context, bus *models.Bus) error {
	bus.UpdatedAt = time.Now().UTC()
	const query = `UPDATE buses SET patente = $1, codigo_interno = $2, marca = $3, modelo = $4, anio = $5, numero_chasis = $6, numero_motor = $7, estado_id = $8, tipo_combustible_id = $9, capacidad_sentados = $10, kilometraje_actual = $11, fecha_compra = $12, precio_compra = $13, observaciones = $14, fecha_actualizacion = $15 WHERE id = $16 AND esta_activo = TRUE`
	res, err := r.db.ExecContext(ctx, query,
		bus.Plate, bus.InternalCode, bus.Make, bus.Model, bus.Year,
		bus.ChassisNumber, bus.EngineNumber, bus.StateID, bus.FuelTypeID,
		bus.SeatCapacity, bus.Mileage, bus.PurchaseDate, bus.PurchasePrice,
		bus.Notes, bus.UpdatedAt, bus.ID,
	)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update bus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bus: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete flips esta_activo off. Returns false when the bus does not
// exist or is already inactive, so repeated calls stay idempotent.
func (r *BusRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE buses SET esta_activo = FALSE, fecha_actualizacion = $2 WHERE id = $1 AND esta_activo = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("soft delete bus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete bus: %w", err)
	}
	return affected > 0, nil
}

// Restore reactivates a soft-deleted bus and returns the refreshed row.
// sql.ErrNoRows means the bus is missing or already active.
func (r *BusRepository) Restore(ctx context.Context, id int64) (*models.Bus, error) {
	query := fmt.Sprintf(`UPDATE buses SET esta_activo = TRUE, fecha_actualizacion = $2 WHERE id = $1 AND esta_activo = FALSE RETURNING %s`, busColumns)
	var bus models.Bus
	if err := r.db.QueryRowxContext(ctx, query, id, time.Now().UTC()).StructScan(&bus); err != nil {
		return nil, err
	}
	return &bus, nil
}

// ListDeleted returns soft-deleted buses, most recently deleted first.
func (r *BusRepository) ListDeleted(ctx context.Context) ([]models.Bus, error) {
	query := fmt.Sprintf("SELECT %s FROM buses WHERE esta_activo = FALSE ORDER BY fecha_actualizacion DESC", busColumns)
	var buses []models.Bus
	if err := r.db.SelectContext(ctx, &buses, query); err != nil {
		return nil, fmt.Errorf("list deleted buses: %w", err)
	}
	return buses, nil
}

// HardDelete removes the row permanently. Administrative path only.
func (r *BusRepository) HardDelete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("hard delete bus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("hard delete bus: %w", err)
	}
	return affected > 0, nil
}

// ListMaintenanceDue returns active buses whose odometer modulo the service
// interval falls within the review window.
func (r *BusRepository) ListMaintenanceDue(ctx context.Context, intervalKM int64) ([]models.Bus, error) {
	query := fmt.Sprintf(`SELECT %s FROM buses WHERE esta_activo = TRUE AND kilometraje_actual IS NOT NULL AND kilometraje_actual %% $1 < $2 ORDER BY id ASC`, busColumns)
	var buses []models.Bus
	if err := r.db.SelectContext(ctx, &buses, query, intervalKM, int64(MaintenanceWindowKM)); err != nil {
		return nil, fmt.Errorf("list maintenance due: %w", err)
	}
	return buses, nil
}

// CountByState aggregates active buses per state name. LEFT JOIN keeps
// zero-count states in the result.
func (r *BusRepository) CountByState(ctx context.Context) ([]models.StateCount, error) {
	const query = `SELECT e.nombre, COUNT(b.id) AS total FROM estados_buses e LEFT JOIN buses b ON b.estado_id = e.id AND b.esta_activo = TRUE GROUP BY e.nombre ORDER BY e.nombre ASC`
	var counts []models.StateCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count buses by state: %w", err)
	}
	return counts, nil
}

// TotalCapacity sums seat capacity over active buses.
func (r *BusRepository) TotalCapacity(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(capacidad_sentados), 0) FROM buses WHERE esta_activo = TRUE`); err != nil {
		return 0, fmt.Errorf("total capacity: %w", err)
	}
	return total, nil
}

// AverageMileage averages non-null odometer readings over active buses,
// rounded to two decimals; 0 when no bus qualifies.
func (r *BusRepository) AverageMileage(ctx context.Context) (float64, error) {
	var avg float64
	const query = `SELECT COALESCE(ROUND(AVG(kilometraje_actual)::numeric, 2), 0) FROM buses WHERE esta_activo = TRUE AND kilometraje_actual IS NOT NULL`
	if err := r.db.GetContext(ctx, &avg, query); err != nil {
		return 0, fmt.Errorf("average mileage: %w", err)
	}
	return avg, nil
}

func prefixColumns(alias string) string {
	cols := strings.Split(busColumns, ", ")
	for i, col := range cols {
		cols[i] = alias + "." + col
	}
	return strings.Join(cols, ", ")
}
