package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bus is the primary fleet entity. Wire and column names keep the Spanish
// vocabulary of the fleet schema (patente, marca, capacidad_sentados, ...).
type Bus struct {
	ID            int64            `db:"id" json:"id"`
	Plate         string           `db:"patente" json:"patente"`
	InternalCode  *string          `db:"codigo_interno" json:"codigo_interno,omitempty"`
	Make          string           `db:"marca" json:"marca"`
	Model         string           `db:"modelo" json:"modelo"`
	Year          int              `db:"anio" json:"anio"`
	ChassisNumber *string          `db:"numero_chasis" json:"numero_chasis,omitempty"`
	EngineNumber  *string          `db:"numero_motor" json:"numero_motor,omitempty"`
	StateID       int64            `db:"estado_id" json:"estado_id"`
	FuelTypeID    int64            `db:"tipo_combustible_id" json:"tipo_combustible_id"`
	SeatCapacity  int              `db:"capacidad_sentados" json:"capacidad_sentados"`
	Mileage       *int64           `db:"kilometraje_actual" json:"kilometraje_actual,omitempty"`
	PurchaseDate  *time.Time       `db:"fecha_compra" json:"fecha_compra,omitempty"`
	PurchasePrice *decimal.Decimal `db:"precio_compra" json:"precio_compra,omitempty"`
	Notes         *string          `db:"observaciones" json:"observaciones,omitempty"`
	Active        bool             `db:"esta_activo" json:"esta_activo"`
	CreatedAt     time.Time        `db:"fecha_creacion" json:"fecha_creacion"`
	UpdatedAt     time.Time        `db:"fecha_actualizacion" json:"fecha_actualizacion"`
}

// BusFilter narrows list queries. Search takes precedence over StateCode,
// which takes precedence over Make; Skip/Limit apply to the plain listing.
type BusFilter struct {
	Search    string
	StateCode string
	Make      string
	Skip      int
	Limit     int
}
