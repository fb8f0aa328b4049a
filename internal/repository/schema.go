package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema statements run at startup. IF NOT EXISTS keeps them idempotent so
// the service can boot against a fresh or an existing database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS estados_buses (
		id BIGSERIAL PRIMARY KEY,
		codigo VARCHAR(20) NOT NULL UNIQUE,
		nombre VARCHAR(50) NOT NULL,
		descripcion TEXT,
		permite_asignacion BOOLEAN NOT NULL DEFAULT FALSE,
		es_activo BOOLEAN NOT NULL DEFAULT TRUE,
		fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tipos_combustible (
		id BIGSERIAL PRIMARY KEY,
		codigo VARCHAR(10) NOT NULL UNIQUE,
		nombre VARCHAR(50) NOT NULL,
		factor_emision NUMERIC(8,4) NOT NULL DEFAULT 0,
		es_activo BOOLEAN NOT NULL DEFAULT TRUE,
		fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS buses (
		id BIGSERIAL PRIMARY KEY,
		patente VARCHAR(8) NOT NULL,
		codigo_interno VARCHAR(50),
		marca VARCHAR(100) NOT NULL,
		modelo VARCHAR(100) NOT NULL,
		anio INTEGER NOT NULL,
		numero_chasis VARCHAR(17),
		numero_motor VARCHAR(100),
		estado_id BIGINT NOT NULL REFERENCES estados_buses(id),
		tipo_combustible_id BIGINT NOT NULL REFERENCES tipos_combustible(id),
		capacidad_sentados INTEGER NOT NULL,
		kilometraje_actual BIGINT DEFAULT 0,
		fecha_compra TIMESTAMPTZ,
		precio_compra NUMERIC(12,2),
		observaciones TEXT,
		esta_activo BOOLEAN NOT NULL DEFAULT TRUE,
		fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		fecha_actualizacion TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS buses_patente_key ON buses (patente)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS buses_codigo_interno_key ON buses (codigo_interno) WHERE codigo_interno IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS buses_numero_chasis_key ON buses (numero_chasis) WHERE numero_chasis IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS buses_estado_id_idx ON buses (estado_id)`,
}

// EnsureSchema creates the fleet tables and uniqueness indexes.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
