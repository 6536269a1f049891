package postgres

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"vacuna-catalog/internal/domain/entity"
)

type constraintInfo struct {
	table      string
	field      string
	referenced string
}

// constraints maps the named schema constraints to the column they guard.
var constraints = map[string]constraintInfo{
	"pk_artigo":               {table: "artigo", field: "codart"},
	"c_prezopos":              {table: "artigo", field: "prezoart"},
	"pk_vacuna":               {table: "vacuna", field: "cod_vacuna"},
	"u_nombre_vacuna":         {table: "vacuna", field: "nombre_vacuna"},
	"pk_estadistica":          {table: "estadistica", field: "cod_estadistica"},
	"u_nombre_estadistica":    {table: "estadistica", field: "nombre_estadistica"},
	"pk_recomendacion":        {table: "recomendacion", field: "cod_recomendacion"},
	"pk_estadistica_vacuna":   {table: "estadistica_vacuna", field: "cod_vacuna, cod_estadistica"},
	"pk_recomendacion_vacuna": {table: "recomendacion_vacuna", field: "cod_vacuna, cod_recomendacion"},
	"fk_ev_vacuna":            {table: "estadistica_vacuna", field: "cod_vacuna", referenced: "vacuna"},
	"fk_ev_estadistica":       {table: "estadistica_vacuna", field: "cod_estadistica", referenced: "estadistica"},
	"fk_rv_vacuna":            {table: "recomendacion_vacuna", field: "cod_vacuna", referenced: "vacuna"},
	"fk_rv_recomendacion":     {table: "recomendacion_vacuna", field: "cod_recomendacion", referenced: "recomendacion"},
}

// knownColumns is searched in the message text when the server sent no metadata.
// Longer names come first so that a prefix never shadows them.
var knownColumns = []string{
	"nombre_estadistica", "cod_recomendacion", "fecha_aplicacion", "cod_estadistica",
	"nombre_vacuna", "organizacion", "descripcion", "cod_vacuna",
	"prezoart", "codart", "nomart", "valor",
}

var (
	detailKey      = regexp.MustCompile(`Key \((.+?)\)=\((.*?)\)`)
	detailRefTable = regexp.MustCompile(`table "([^"]+)"`)
)

// translateError classifies a PostgreSQL failure into an *entity.StoreError
// that keeps err in its chain. Errors that did not come from the server are
// returned unchanged, and so are errors that were already classified.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var se *entity.StoreError
	if errors.As(err, &se) {
		return err
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	se = &entity.StoreError{
		Kind:       entity.KindUnknown,
		Table:      pgErr.TableName,
		Field:      pgErr.ColumnName,
		Constraint: pgErr.ConstraintName,
		Code:       pgErr.Code,
		Message:    pgErr.Message,
		Err:        err,
	}
	info, known := constraints[pgErr.ConstraintName]

	switch pgErr.Code {
	case pgerrcode.UndefinedTable:
		se.Kind = entity.KindTableMissing
	case pgerrcode.DuplicateTable:
		se.Kind = entity.KindTableExists
	case pgerrcode.NotNullViolation:
		se.Kind = entity.KindRequired
		if se.Field == "" {
			se.Field = columnIn(pgErr.Message)
		}
	case pgerrcode.UniqueViolation:
		se.Kind = entity.KindDuplicate
		if known {
			se.Table, se.Field = info.table, info.field
		}
		if m := detailKey.FindStringSubmatch(pgErr.Detail); m != nil {
			se.Field, se.Value = m[1], m[2]
		}
		if se.Field == "" {
			se.Field = columnIn(pgErr.Message)
		}
	case pgerrcode.ForeignKeyViolation:
		se.Kind = entity.KindNotRegistered
		if known {
			se.Table, se.Field = info.referenced, info.field
		}
		if m := detailKey.FindStringSubmatch(pgErr.Detail); m != nil {
			se.Field, se.Value = m[1], m[2]
		}
		if m := detailRefTable.FindStringSubmatch(pgErr.Detail); m != nil {
			se.Table = m[1]
		}
	case pgerrcode.InvalidTextRepresentation:
		se.Kind = entity.KindNotNumeric
	case pgerrcode.NumericValueOutOfRange:
		se.Kind = entity.KindOutOfRange
	case pgerrcode.CheckViolation:
		se.Kind = entity.KindCheck
		if known {
			se.Field = info.field
		}
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		se.Kind = entity.KindConflict
	}
	return se
}

func columnIn(message string) string {
	for _, c := range knownColumns {
		if strings.Contains(message, c) {
			return c
		}
	}
	return ""
}
