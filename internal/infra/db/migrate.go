package db

import (
	"context"
	"fmt"
)

// ArticleTableDDL creates the artigo catalog. It deliberately has no IF NOT EXISTS:
// creating it twice must surface duplicate_table to the user.
const ArticleTableDDL = `
CREATE TABLE artigo (
    codart   INT CONSTRAINT pk_artigo PRIMARY KEY,
    nomart   VARCHAR(30) NOT NULL,
    prezoart NUMERIC(5,2) CONSTRAINT c_prezopos CHECK (prezoart > 0)
)`

// ArticleTableDropDDL drops the artigo catalog.
const ArticleTableDropDDL = `DROP TABLE artigo`

// vaccineSchema lists the vaccine schema in dependency order.
var vaccineSchema = []string{
	`
CREATE TABLE IF NOT EXISTS vacuna (
    cod_vacuna    INT CONSTRAINT pk_vacuna PRIMARY KEY,
    nombre_vacuna VARCHAR(50) NOT NULL CONSTRAINT u_nombre_vacuna UNIQUE
)`,
	`
CREATE TABLE IF NOT EXISTS estadistica (
    cod_estadistica    INT CONSTRAINT pk_estadistica PRIMARY KEY,
    nombre_estadistica VARCHAR(80) NOT NULL CONSTRAINT u_nombre_estadistica UNIQUE
)`,
	`
CREATE TABLE IF NOT EXISTS recomendacion (
    cod_recomendacion INT CONSTRAINT pk_recomendacion PRIMARY KEY,
    organizacion      VARCHAR(80) NOT NULL,
    descripcion       TEXT NOT NULL
)`,
	`
CREATE TABLE IF NOT EXISTS estadistica_vacuna (
    cod_vacuna      INT NOT NULL CONSTRAINT fk_ev_vacuna REFERENCES vacuna(cod_vacuna),
    cod_estadistica INT NOT NULL CONSTRAINT fk_ev_estadistica REFERENCES estadistica(cod_estadistica),
    valor           NUMERIC(14,2) NOT NULL,
    descripcion     TEXT,
    CONSTRAINT pk_estadistica_vacuna PRIMARY KEY (cod_vacuna, cod_estadistica)
)`,
	`
CREATE TABLE IF NOT EXISTS recomendacion_vacuna (
    cod_vacuna        INT NOT NULL CONSTRAINT fk_rv_vacuna REFERENCES vacuna(cod_vacuna),
    cod_recomendacion INT NOT NULL CONSTRAINT fk_rv_recomendacion REFERENCES recomendacion(cod_recomendacion),
    fecha_aplicacion  DATE NOT NULL,
    CONSTRAINT pk_recomendacion_vacuna PRIMARY KEY (cod_vacuna, cod_recomendacion)
)`,
	// FK lookups from the statistic/recommendation side; names are indexed by their UNIQUE constraints
	`CREATE INDEX IF NOT EXISTS idx_estadistica_vacuna_estadistica ON estadistica_vacuna(cod_estadistica)`,
	`CREATE INDEX IF NOT EXISTS idx_recomendacion_vacuna_recomendacion ON recomendacion_vacuna(cod_recomendacion)`,
}

// MigrateUp creates the vaccine schema. It is idempotent.
func MigrateUp(ctx context.Context, db DBTX) error {
	for _, stmt := range vaccineSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}
	return nil
}

// MigrateDown drops the vaccine schema in reverse dependency order.
// Use with caution: this will delete all data in the affected tables.
func MigrateDown(ctx context.Context, db DBTX) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS recomendacion_vacuna`,
		`DROP TABLE IF EXISTS estadistica_vacuna`,
		`DROP TABLE IF EXISTS recomendacion`,
		`DROP TABLE IF EXISTS estadistica`,
		`DROP TABLE IF EXISTS vacuna`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}

	return nil
}
