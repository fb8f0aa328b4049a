package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusState is a reference-table row replacing the old in-process state enum.
// Seeded once, read-only from the bus perspective.
type BusState struct {
	ID               int64     `db:"id" json:"id"`
	Code             string    `db:"codigo" json:"codigo"`
	Name             string    `db:"nombre" json:"nombre"`
	Description      *string   `db:"descripcion" json:"descripcion,omitempty"`
	AllowsAssignment bool      `db:"permite_asignacion" json:"permite_asignacion"`
	Active           bool      `db:"es_activo" json:"es_activo"`
	CreatedAt        time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// FuelType is a reference-table row, with the emission factor used for
// environmental reporting.
type FuelType struct {
	ID             int64           `db:"id" json:"id"`
	Code           string          `db:"codigo" json:"codigo"`
	Name           string          `db:"nombre" json:"nombre"`
	EmissionFactor decimal.Decimal `db:"factor_emision" json:"factor_emision"`
	Active         bool            `db:"es_activo" json:"es_activo"`
	CreatedAt      time.Time       `db:"fecha_creacion" json:"fecha_creacion"`
}
