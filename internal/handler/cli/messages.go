package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"

	"vacuna-catalog/internal/domain/entity"
	artUC "vacuna-catalog/internal/usecase/article"
	vacUC "vacuna-catalog/internal/usecase/vaccine"
)

// Fixed user messages.
const (
	msgTableMissing     = "La tabla no existe."
	msgTableExists      = "La tabla ya existe."
	msgNotNumeric       = "El código debe ser numérico."
	msgValueNotNumeric  = "El valor debe ser numérico."
	msgOutOfRange       = "El valor excede el número de dígitos permitido; será truncado."
	msgCheck            = "El precio debe ser positivo."
	msgConflict         = "La operación entró en conflicto con otra transacción; vuelva a intentarlo."
	msgUnavailable      = "La base de datos no está disponible; vuelva a intentarlo más tarde."
	msgNoRows           = "No existe ningún registro con esa clave."
	msgInvalidDate      = "La fecha debe tener el formato AAAA-MM-DD."
	msgInvalidIncrement = "El incremento debe ser un número, opcionalmente seguido de %."
	msgInvalidOption    = "Opción no válida."
	msgMissingRef       = "Debe indicar un código o un nombre."
	msgUnknownPrice     = "El precio del artículo es desconocido; no se puede incrementar."
	msgArticleMissing   = "El artículo no existe."
	msgRecMissing       = "La recomendación no existe."
	msgNotFound         = "No existe ningún registro con esa clave o nombre."
)

// columnLabels names each column the way the messages refer to it.
var columnLabels = map[string]string{
	"codart":             "El código de artículo",
	"nomart":             "El nombre de artículo",
	"prezoart":           "El precio",
	"cod_vacuna":         "El código de vacuna",
	"nombre_vacuna":      "El nombre de vacuna",
	"cod_estadistica":    "El código de estadística",
	"nombre_estadistica": "El nombre de estadística",
	"cod_recomendacion":  "El código de recomendación",
	"organizacion":       "El campo organización",
	"descripcion":        "El campo descripción",
	"valor":              "El valor",
	"fecha_aplicacion":   "El campo fecha de aplicación",
}

// amountFields hold amounts rather than codes.
var amountFields = map[string]bool{
	"prezoart": true,
	"valor":    true,
}

// keyLabels names a key column inside a sentence.
var keyLabels = map[string]string{
	"codart":             "código",
	"cod_vacuna":         "código",
	"cod_estadistica":    "código",
	"cod_recomendacion":  "código",
	"nomart":             "nombre",
	"nombre_vacuna":      "nombre",
	"nombre_estadistica": "nombre",
}

type tableLabel struct {
	name     string
	feminine bool
}

var tableLabels = map[string]tableLabel{
	"artigo":               {"El artículo", false},
	"vacuna":               {"La vacuna", true},
	"estadistica":          {"La estadística", true},
	"recomendacion":        {"La recomendación", true},
	"estadistica_vacuna":   {"La estadística de la vacuna", true},
	"recomendacion_vacuna": {"La recomendación de la vacuna", true},
}

// Message translates err into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, entity.ErrNoRowsAffected):
		return msgNoRows
	case errors.Is(err, artUC.ErrArticleNotFound):
		return msgArticleMissing
	case errors.Is(err, artUC.ErrUnknownPrice):
		return msgUnknownPrice
	case errors.Is(err, vacUC.ErrRecommendationNotFound):
		return msgRecMissing
	case errors.Is(err, vacUC.ErrVaccineNotFound):
		return "No existe ninguna vacuna con ese nombre."
	case errors.Is(err, vacUC.ErrStatisticNotFound):
		return "No existe ninguna estadística con ese nombre."
	case errors.Is(err, vacUC.ErrMissingReference):
		return msgMissingRef
	case errors.Is(err, entity.ErrNotFound):
		return msgNotFound
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return msgUnavailable
	}

	var se *entity.StoreError
	if errors.As(err, &se) {
		return storeMessage(se)
	}

	var ve *entity.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Field == "increment":
			return msgInvalidIncrement
		case errors.Is(err, entity.ErrNotNumeric) && amountFields[ve.Field]:
			return msgValueNotNumeric
		case errors.Is(err, entity.ErrNotNumeric):
			return msgNotNumeric
		case strings.Contains(ve.Message, "date"):
			return msgInvalidDate
		}
		return fmt.Sprintf("Valor no válido para %s.", ve.Field)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Sprintf("Error genérico: %s : %s", pgErr.Code, pgErr.Message)
	}
	return "Error genérico: " + SanitizeError(err)
}

func storeMessage(se *entity.StoreError) string {
	switch se.Kind {
	case entity.KindTableMissing:
		return msgTableMissing
	case entity.KindTableExists:
		return msgTableExists
	case entity.KindRequired:
		return fmt.Sprintf("%s es obligatorio.", columnLabel(se.Field))
	case entity.KindDuplicate:
		return duplicateMessage(se)
	case entity.KindNotRegistered:
		return notRegisteredMessage(se)
	case entity.KindNotNumeric:
		return msgNotNumeric
	case entity.KindOutOfRange:
		return msgOutOfRange
	case entity.KindCheck:
		return msgCheck
	case entity.KindConflict:
		return msgConflict
	}
	return fmt.Sprintf("Error genérico: %s : %s", se.Code, se.Message)
}

func columnLabel(field string) string {
	if l, ok := columnLabels[field]; ok {
		return l
	}
	if field == "" {
		return "Un campo"
	}
	return "El campo " + field
}

func table(name string) tableLabel {
	if t, ok := tableLabels[name]; ok {
		return t
	}
	return tableLabel{name: "El registro"}
}

func duplicateMessage(se *entity.StoreError) string {
	t := table(se.Table)
	key, ok := keyLabels[se.Field]
	if !ok {
		key = "clave"
		if strings.Contains(se.Field, ",") {
			key = "códigos"
		}
	}
	if se.Value == "" {
		return fmt.Sprintf("%s con ese %s ya existe.", t.name, key)
	}
	return fmt.Sprintf("%s con %s %s ya existe.", t.name, key, se.Value)
}

func notRegisteredMessage(se *entity.StoreError) string {
	t := table(se.Table)
	suffix := "registrado"
	if t.feminine {
		suffix = "registrada"
	}
	if se.Value == "" {
		return fmt.Sprintf("%s no está %s.", t.name, suffix)
	}
	return fmt.Sprintf("%s %s no está %s.", t.name, se.Value, suffix)
}
