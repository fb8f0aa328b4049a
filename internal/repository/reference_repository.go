package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/juanraniqueo21/proyecto-buses/internal/models"
)

// ReferenceRepository reads the estados_buses and tipos_combustible lookup
// tables. It also owns the idempotent seeding of their initial rows.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository creates a new repository instance.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ListStates returns active bus states ordered by name.
func (r *ReferenceRepository) ListStates(ctx context.Context) ([]models.BusState, error) {
	const query = `SELECT id, codigo, nombre, descripcion, permite_asignacion, es_activo, fecha_creacion FROM estados_buses WHERE es_activo = TRUE ORDER BY nombre ASC`
	var states []models.BusState
	if err := r.db.SelectContext(ctx, &states, query); err != nil {
		return nil, fmt.Errorf("list bus states: %w", err)
	}
	return states, nil
}

// ListFuelTypes returns active fuel types ordered by name.
func (r *ReferenceRepository) ListFuelTypes(ctx context.Context) ([]models.FuelType, error) {
	const query = `SELECT id, codigo, nombre, factor_emision, es_activo, fecha_creacion FROM tipos_combustible WHERE es_activo = TRUE ORDER BY nombre ASC`
	var fuels []models.FuelType
	if err := r.db.SelectContext(ctx, &fuels, query); err != nil {
		return nil, fmt.Errorf("list fuel types: %w", err)
	}
	return fuels, nil
}

// StateExists reports whether an active state row has the given id.
func (r *ReferenceRepository) StateExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM estados_buses WHERE id = $1 AND es_activo = TRUE LIMIT 1`, id)
}

// FuelTypeExists reports whether an active fuel type row has the given id.
func (r *ReferenceRepository) FuelTypeExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM tipos_combustible WHERE id = $1 AND es_activo = TRUE LIMIT 1`, id)
}

// FindStateByCode resolves a state by its short code.
func (r *ReferenceRepository) FindStateByCode(ctx context.Context, code string) (*models.BusState, error) {
	const query = `SELECT id, codigo, nombre, descripcion, permite_asignacion, es_activo, fecha_creacion FROM estados_buses WHERE codigo = $1 AND es_activo = TRUE`
	var state models.BusState
	if err := r.db.GetContext(ctx, &state, query, code); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *ReferenceRepository) exists(ctx context.Context, query string, id int64) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check reference row: %w", err)
	}
	return true, nil
}

type stateSeed struct {
	code             string
	name             string
	description      string
	allowsAssignment bool
}

type fuelSeed struct {
	code           string
	name           string
	emissionFactor decimal.Decimal
}

var stateSeeds = []stateSeed{
	{"ACT", "Activo", "Bus operativo y disponible", true},
	{"MAN", "Mantenimiento", "Bus en mantenimiento programado", false},
	{"FS", "Fuera de Servicio", "Bus temporalmente fuera de servicio", false},
	{"RET", "Retirado", "Bus retirado de la flota", false},
}

var fuelSeeds = []fuelSeed{
	{"DSL", "Diesel", decimal.NewFromFloat(2.6391)},
	{"GAS", "Gasolina", decimal.NewFromFloat(2.3240)},
	{"ELE", "Eléctrico", decimal.NewFromInt(0)},
	{"HIB", "Híbrido", decimal.NewFromFloat(1.8000)},
	{"GNV", "Gas Natural", decimal.NewFromFloat(2.0000)},
}

// Seed inserts the initial reference rows. ON CONFLICT DO NOTHING keeps
// restarts and already-populated databases safe.
func (r *ReferenceRepository) Seed(ctx context.Context) error {
	const stateQuery = `INSERT INTO estados_buses (codigo, nombre, descripcion, permite_asignacion) VALUES ($1, $2, $3, $4) ON CONFLICT (codigo) DO NOTHING`
	for _, s := range stateSeeds {
		if _, err := r.db.ExecContext(ctx, stateQuery, s.code, s.name, s.description, s.allowsAssignment); err != nil {
			return fmt.Errorf("seed state %s: %w", s.code, err)
		}
	}

	const fuelQuery = `INSERT INTO tipos_combustible (codigo, nombre, factor_emision) VALUES ($1, $2, $3) ON CONFLICT (codigo) DO NOTHING`
	for _, f := range fuelSeeds {
		if _, err := r.db.ExecContext(ctx, fuelQuery, f.code, f.name, f.emissionFactor); err != nil {
			return fmt.Errorf("seed fuel type %s: %w", f.code, err)
		}
	}
	return nil
}
