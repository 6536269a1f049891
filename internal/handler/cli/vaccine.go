package cli

import (
	"context"
	"errors"
	"strconv"
	"time"

	"vacuna-catalog/internal/domain/entity"
	vacUC "vacuna-catalog/internal/usecase/vaccine"
)

func (h *Handler) askText(label string) (*string, error) {
	answer, ok := h.con.ask(label)
	if !ok {
		return nil, errAborted
	}
	return entity.OptionalString(answer), nil
}

func (h *Handler) askRef(label, field string) (entity.Ref, error) {
	answer, ok := h.con.ask(label)
	if !ok {
		return entity.Ref{}, errAborted
	}
	return entity.ParseRef(field, answer)
}

func (h *Handler) askDate(label, field string) (*time.Time, error) {
	answer, ok := h.con.ask(label)
	if !ok {
		return nil, errAborted
	}
	return entity.ParseOptionalDate(field, answer)
}

// insertVaccine collects the vaccine and every recommendation to link before
// anything is written, then runs the whole plan as one unit of work.
func (h *Handler) insertVaccine(ctx context.Context) error {
	id, err := h.askID("Código de vacuna: ", "cod_vacuna")
	if err != nil {
		return err
	}
	name, err := h.askText("Nombre de vacuna: ")
	if err != nil {
		return err
	}
	plan := vacUC.NewPlan(vacUC.VaccineInput{ID: id, Name: name})

	for {
		more, ok := h.con.confirm("¿Añadir una recomendación?")
		if !ok {
			return errAborted
		}
		if !more {
			break
		}
		if err := h.askLink(plan); err != nil {
			if !errors.Is(err, errAborted) {
				h.con.println("No se ha guardado nada.")
			}
			return err
		}
	}

	if plan.Len() == 0 {
		if err := h.vaccines.AddVaccine(ctx, plan.Vaccine()); err != nil {
			return err
		}
		h.con.println("Vacuna añadida.")
		return nil
	}

	n, err := h.vaccines.Execute(ctx, plan)
	if err != nil {
		var step *vacUC.StepError
		if errors.As(err, &step) && step.Step > 0 {
			h.con.printf("La recomendación %d no se pudo añadir: %s\n", step.Step, Message(err))
			h.con.println("No se ha guardado nada.")
			return nil
		}
		return err
	}
	h.con.printf("Vacuna añadida con %d recomendaciones.\n", n)
	return nil
}

// askLink asks for one recommendation. Empty organization and description link
// an existing recommendation instead of creating one.
func (h *Handler) askLink(plan *vacUC.Plan) error {
	id, err := h.askID("  Código de recomendación: ", "cod_recomendacion")
	if err != nil {
		return err
	}
	org, err := h.askText("  Organización (vacío si ya existe): ")
	if err != nil {
		return err
	}
	var desc *string
	if org != nil {
		if desc, err = h.askText("  Descripción: "); err != nil {
			return err
		}
	}
	applied, err := h.askDate("  Fecha de aplicación (AAAA-MM-DD): ", "fecha_aplicacion")
	if err != nil {
		return err
	}

	if org == nil {
		plan.LinkRecommendation(id, applied)
		return nil
	}
	plan.AddRecommendation(vacUC.RecommendationInput{ID: id, Organization: org, Description: desc}, applied)
	return nil
}

func (h *Handler) insertStatistic(ctx context.Context) error {
	id, err := h.askID("Código de estadística: ", "cod_estadistica")
	if err != nil {
		return err
	}
	name, err := h.askText("Nombre de estadística: ")
	if err != nil {
		return err
	}
	if err := h.vaccines.AddStatistic(ctx, vacUC.StatisticInput{ID: id, Name: name}); err != nil {
		return err
	}
	h.con.println("Estadística añadida.")
	return nil
}

func (h *Handler) insertRecommendation(ctx context.Context) error {
	id, err := h.askID("Código de recomendación: ", "cod_recomendacion")
	if err != nil {
		return err
	}
	org, err := h.askText("Organización: ")
	if err != nil {
		return err
	}
	desc, err := h.askText("Descripción: ")
	if err != nil {
		return err
	}
	err = h.vaccines.AddRecommendation(ctx, vacUC.RecommendationInput{ID: id, Organization: org, Description: desc})
	if err != nil {
		return err
	}
	h.con.println("Recomendación añadida.")
	return nil
}

func (h *Handler) registerStatistic(ctx context.Context) error {
	vaccine, err := h.askRef("Código o nombre de vacuna: ", "cod_vacuna")
	if err != nil {
		return err
	}
	statistic, err := h.askRef("Código o nombre de estadística: ", "cod_estadistica")
	if err != nil {
		return err
	}
	valueText, ok := h.con.ask("Valor: ")
	if !ok {
		return errAborted
	}
	value, err := entity.ParseOptionalNumber("valor", valueText)
	if err != nil {
		return err
	}
	desc, err := h.askText("Descripción (opcional): ")
	if err != nil {
		return err
	}

	err = h.vaccines.RegisterStatistic(ctx, vacUC.RegistrationInput{
		Vaccine: vaccine, Statistic: statistic, Value: value, Description: desc,
	})
	switch {
	case errors.Is(err, vacUC.ErrVaccineNotFound):
		h.con.printf("La vacuna %s no existe.\n", vaccine)
		return nil
	case errors.Is(err, vacUC.ErrStatisticNotFound):
		h.con.printf("La estadística %s no existe.\n", statistic)
		return nil
	case err != nil:
		return err
	}
	h.con.println("Estadística registrada.")
	return nil
}

func (h *Handler) printReportHeader(ref entity.Ref) {
	if ref.ID != nil {
		h.con.printf("Mostrando información para la vacuna con código (%d):\n", *ref.ID)
		return
	}
	h.con.printf("Mostrando información para la vacuna de nombre %q:\n", ref.Name)
}

func (h *Handler) statisticsReport(ctx context.Context) error {
	ref, err := h.askRef("Código o nombre de vacuna: ", "cod_vacuna")
	if err != nil {
		return err
	}
	rows, err := h.vaccines.StatisticsReport(ctx, ref)
	if err != nil {
		return err
	}

	h.printReportHeader(ref)
	if len(rows) == 0 {
		h.con.println("No hay estadísticas registradas.")
		return nil
	}
	h.con.printf("-- %s (%d) --\n", rows[0].VaccineName, rows[0].VaccineID)
	for _, r := range rows {
		desc := "N/A"
		if r.Description != nil && *r.Description != "" {
			desc = *r.Description
		}
		h.con.printf("Cod (%d); %s %s;\n\tDescripción: %s\n",
			r.StatisticID, r.StatisticName, strconv.FormatFloat(r.Value, 'f', 2, 64), desc)
	}
	return nil
}

func (h *Handler) recommendationsReport(ctx context.Context) error {
	ref, err := h.askRef("Código o nombre de vacuna: ", "cod_vacuna")
	if err != nil {
		return err
	}
	rows, err := h.vaccines.RecommendationsReport(ctx, ref)
	if err != nil {
		return err
	}

	h.printReportHeader(ref)
	if len(rows) == 0 {
		h.con.println("No hay recomendaciones registradas.")
		return nil
	}
	h.con.printf("-- %s (%d) --\n", rows[0].VaccineName, rows[0].VaccineID)
	for _, r := range rows {
		h.con.printf("Cod (%d); %s; %s\n\tDescripción: %s\n",
			r.RecommendationID, r.Organization, r.AppliedOn.Format(entity.DateLayout), r.Description)
	}
	return nil
}

// updateRecommendation shows the current values; an empty answer keeps a field.
func (h *Handler) updateRecommendation(ctx context.Context) error {
	id, err := h.askRequiredID("Código de recomendación: ", "cod_recomendacion")
	if err != nil {
		return err
	}
	rec, err := h.vaccines.GetRecommendation(ctx, id)
	if err != nil {
		return err
	}
	h.con.printf("Organización: %s\nDescripción: %s\n", rec.Organization, rec.Description)

	org, err := h.askText("Nueva organización (vacío para mantener): ")
	if err != nil {
		return err
	}
	desc, err := h.askText("Nueva descripción (vacío para mantener): ")
	if err != nil {
		return err
	}
	if org == nil && desc == nil {
		h.con.println("Sin cambios.")
		return nil
	}

	err = h.vaccines.UpdateRecommendation(ctx, id, org, desc)
	if errors.Is(err, entity.ErrNoRowsAffected) {
		h.con.printf("La recomendación %d ya no existe.\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	h.con.println("Recomendación actualizada.")
	return nil
}

func (h *Handler) deleteVaccineStatistic(ctx context.Context) error {
	vaccineID, err := h.askRequiredID("Código de vacuna: ", "cod_vacuna")
	if err != nil {
		return err
	}
	statisticID, err := h.askRequiredID("Código de estadística: ", "cod_estadistica")
	if err != nil {
		return err
	}
	err = h.vaccines.DeleteVaccineStatistic(ctx, vaccineID, statisticID)
	if errors.Is(err, entity.ErrNoRowsAffected) {
		h.con.printf("La vacuna %d no tiene registrada la estadística %d.\n", vaccineID, statisticID)
		return nil
	}
	if err != nil {
		return err
	}
	h.con.println("Estadística de vacuna borrada.")
	return nil
}

func (h *Handler) deleteVaccineRecommendation(ctx context.Context) error {
	vaccineID, err := h.askRequiredID("Código de vacuna: ", "cod_vacuna")
	if err != nil {
		return err
	}
	recID, err := h.askRequiredID("Código de recomendación: ", "cod_recomendacion")
	if err != nil {
		return err
	}
	err = h.vaccines.DeleteVaccineRecommendation(ctx, vaccineID, recID)
	if errors.Is(err, entity.ErrNoRowsAffected) {
		h.con.printf("La vacuna %d no tiene enlazada la recomendación %d.\n", vaccineID, recID)
		return nil
	}
	if err != nil {
		return err
	}
	h.con.println("Recomendación de vacuna borrada.")
	return nil
}

func (h *Handler) listVaccines(ctx context.Context) error {
	vaccines, err := h.vaccines.ListVaccines(ctx)
	if err != nil {
		return err
	}
	if len(vaccines) == 0 {
		h.con.println("No hay vacunas.")
		return nil
	}
	for i, v := range vaccines {
		h.con.printf("Fila %d de %d: Código: %d; Nombre: %s\n", i+1, len(vaccines), v.ID, v.Name)
	}
	return nil
}

func (h *Handler) listStatistics(ctx context.Context) error {
	statistics, err := h.vaccines.ListStatistics(ctx)
	if err != nil {
		return err
	}
	if len(statistics) == 0 {
		h.con.println("No hay estadísticas.")
		return nil
	}
	for i, st := range statistics {
		h.con.printf("Fila %d de %d: Código: %d; Nombre: %s\n", i+1, len(statistics), st.ID, st.Name)
	}
	return nil
}

func (h *Handler) showVaccine(ctx context.Context) error {
	ref, err := h.askRef("Código o nombre de vacuna: ", "cod_vacuna")
	if err != nil {
		return err
	}
	v, err := h.vaccines.FindVaccine(ctx, ref)
	if errors.Is(err, vacUC.ErrVaccineNotFound) {
		h.con.printf("La vacuna %s no existe.\n", ref)
		return nil
	}
	if err != nil {
		return err
	}
	h.con.printf("Código: %d; Nombre: %s\n", v.ID, v.Name)
	return nil
}

func (h *Handler) showStatistic(ctx context.Context) error {
	ref, err := h.askRef("Código o nombre de estadística: ", "cod_estadistica")
	if err != nil {
		return err
	}
	st, err := h.vaccines.FindStatistic(ctx, ref)
	if errors.Is(err, vacUC.ErrStatisticNotFound) {
		h.con.printf("La estadística %s no existe.\n", ref)
		return nil
	}
	if err != nil {
		return err
	}
	h.con.printf("Código: %d; Nombre: %s\n", st.ID, st.Name)
	return nil
}
