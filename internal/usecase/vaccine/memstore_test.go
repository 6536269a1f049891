package vaccine_test

import (
	"context"
	"maps"
	"sort"

	"vacuna-catalog/internal/domain/entity"
	"vacuna-catalog/internal/repository"
)

/* ───────── in-memory store enforcing the schema constraints ───────── */

type pair struct{ a, b int64 }

type memState struct {
	vaccines        map[int64]string
	statistics      map[int64]string
	recommendations map[int64]entity.Recommendation
	vacStats        map[pair]entity.VaccineStatistic
	vacRecs         map[pair]entity.VaccineRecommendation
}

func (s memState) clone() memState {
	return memState{
		vaccines:        maps.Clone(s.vaccines),
		statistics:      maps.Clone(s.statistics),
		recommendations: maps.Clone(s.recommendations),
		vacStats:        maps.Clone(s.vacStats),
		vacRecs:         maps.Clone(s.vacRecs),
	}
}

type memDB struct {
	state memState
	opts  []repository.TxOptions
	calls int // statements executed, committed or not
}

func newMemDB() *memDB {
	return &memDB{state: memState{
		vaccines:        map[int64]string{},
		statistics:      map[int64]string{},
		recommendations: map[int64]entity.Recommendation{},
		vacStats:        map[pair]entity.VaccineStatistic{},
		vacRecs:         map[pair]entity.VaccineRecommendation{},
	}}
}

// Do snapshots the state and restores it when fn fails.
func (m *memDB) Do(ctx context.Context, opts repository.TxOptions, fn func(context.Context, repository.Stores) error) error {
	m.opts = append(m.opts, opts)
	snapshot := m.state.clone()
	stores := repository.Stores{
		Vaccines:               memVaccines{m},
		Statistics:             memStatistics{m},
		Recommendations:        memRecommendations{m},
		VaccineStatistics:      memVacStats{m},
		VaccineRecommendations: memVacRecs{m},
	}
	if err := fn(ctx, stores); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func required(field string) error {
	return &entity.StoreError{Kind: entity.KindRequired, Field: field, Code: "23502"}
}

func duplicate(table, field string) error {
	return &entity.StoreError{Kind: entity.KindDuplicate, Table: table, Field: field, Code: "23505"}
}

func notRegistered(table string) error {
	return &entity.StoreError{Kind: entity.KindNotRegistered, Table: table, Code: "23503"}
}

type memVaccines struct{ m *memDB }

func (r memVaccines) Create(_ context.Context, v repository.NewVaccine) error {
	r.m.calls++
	if v.ID == nil {
		return required("cod_vacuna")
	}
	if v.Name == nil {
		return required("nombre_vacuna")
	}
	if _, ok := r.m.state.vaccines[*v.ID]; ok {
		return duplicate("vacuna", "cod_vacuna")
	}
	for _, n := range r.m.state.vaccines {
		if n == *v.Name {
			return duplicate("vacuna", "nombre_vacuna")
		}
	}
	r.m.state.vaccines[*v.ID] = *v.Name
	return nil
}

func (r memVaccines) Get(_ context.Context, id int64) (*entity.Vaccine, error) {
	n, ok := r.m.state.vaccines[id]
	if !ok {
		return nil, nil
	}
	return &entity.Vaccine{ID: id, Name: n}, nil
}

func (r memVaccines) FindByName(_ context.Context, name string) (*entity.Vaccine, error) {
	r.m.calls++
	for id, n := range r.m.state.vaccines {
		if n == entity.NormalizeName(name) {
			return &entity.Vaccine{ID: id, Name: n}, nil
		}
	}
	return nil, nil
}

func (r memVaccines) List(context.Context) ([]*entity.Vaccine, error) {
	var out []*entity.Vaccine
	for id, n := range r.m.state.vaccines {
		out = append(out, &entity.Vaccine{ID: id, Name: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memStatistics struct{ m *memDB }

func (r memStatistics) Create(_ context.Context, s repository.NewStatistic) error {
	r.m.calls++
	if s.ID == nil {
		return required("cod_estadistica")
	}
	if s.Name == nil {
		return required("nombre_estadistica")
	}
	if _, ok := r.m.state.statistics[*s.ID]; ok {
		return duplicate("estadistica", "cod_estadistica")
	}
	r.m.state.statistics[*s.ID] = *s.Name
	return nil
}

func (r memStatistics) Get(_ context.Context, id int64) (*entity.Statistic, error) {
	n, ok := r.m.state.statistics[id]
	if !ok {
		return nil, nil
	}
	return &entity.Statistic{ID: id, Name: n}, nil
}

func (r memStatistics) FindByName(_ context.Context, name string) (*entity.Statistic, error) {
	r.m.calls++
	for id, n := range r.m.state.statistics {
		if n == entity.NormalizeName(name) {
			return &entity.Statistic{ID: id, Name: n}, nil
		}
	}
	return nil, nil
}

func (r memStatistics) List(context.Context) ([]*entity.Statistic, error) {
	var out []*entity.Statistic
	for id, n := range r.m.state.statistics {
		out = append(out, &entity.Statistic{ID: id, Name: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memRecommendations struct{ m *memDB }

func (r memRecommendations) Create(_ context.Context, rec repository.NewRecommendation) error {
	r.m.calls++
	switch {
	case rec.ID == nil:
		return required("cod_recomendacion")
	case rec.Organization == nil:
		return required("organizacion")
	case rec.Description == nil:
		return required("descripcion")
	}
	if _, ok := r.m.state.recommendations[*rec.ID]; ok {
		return duplicate("recomendacion", "cod_recomendacion")
	}
	r.m.state.recommendations[*rec.ID] = entity.Recommendation{ID: *rec.ID, Organization: *rec.Organization, Description: *rec.Description}
	return nil
}

func (r memRecommendations) Get(_ context.Context, id int64) (*entity.Recommendation, error) {
	rec, ok := r.m.state.recommendations[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r memRecommendations) Update(_ context.Context, id int64, organization, description *string) error {
	r.m.calls++
	rec, ok := r.m.state.recommendations[id]
	if !ok {
		return entity.ErrNoRowsAffected
	}
	if organization != nil {
		rec.Organization = *organization
	}
	if description != nil {
		rec.Description = *description
	}
	r.m.state.recommendations[id] = rec
	return nil
}

type memVacStats struct{ m *memDB }

func (r memVacStats) Create(_ context.Context, vs repository.NewVaccineStatistic) error {
	r.m.calls++
	switch {
	case vs.VaccineID == nil:
		return required("cod_vacuna")
	case vs.StatisticID == nil:
		return required("cod_estadistica")
	case vs.Value == nil:
		return required("valor")
	}
	if _, ok := r.m.state.vaccines[*vs.VaccineID]; !ok {
		return notRegistered("vacuna")
	}
	if _, ok := r.m.state.statistics[*vs.StatisticID]; !ok {
		return notRegistered("estadistica")
	}
	key := pair{*vs.VaccineID, *vs.StatisticID}
	if _, ok := r.m.state.vacStats[key]; ok {
		return duplicate("estadistica_vacuna", "cod_vacuna, cod_estadistica")
	}
	r.m.state.vacStats[key] = entity.VaccineStatistic{
		VaccineID: key.a, StatisticID: key.b, Value: *vs.Value, Description: vs.Description,
	}
	return nil
}

func (r memVacStats) Delete(_ context.Context, vaccineID, statisticID int64) error {
	r.m.calls++
	key := pair{vaccineID, statisticID}
	if _, ok := r.m.state.vacStats[key]; !ok {
		return entity.ErrNoRowsAffected
	}
	delete(r.m.state.vacStats, key)
	return nil
}

func (r memVacStats) ReportByVaccineID(_ context.Context, vaccineID int64) ([]entity.StatisticReportRow, error) {
	var out []entity.StatisticReportRow
	for k, vs := range r.m.state.vacStats {
		if k.a != vaccineID {
			continue
		}
		out = append(out, entity.StatisticReportRow{
			VaccineID: k.a, VaccineName: r.m.state.vaccines[k.a],
			StatisticID: k.b, StatisticName: r.m.state.statistics[k.b],
			Value: vs.Value, Description: vs.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StatisticID < out[j].StatisticID })
	return out, nil
}

func (r memVacStats) ReportByVaccineName(ctx context.Context, name string) ([]entity.StatisticReportRow, error) {
	v, _ := memVaccines(r).FindByName(ctx, name)
	if v == nil {
		return nil, nil
	}
	return r.ReportByVaccineID(ctx, v.ID)
}

type memVacRecs struct{ m *memDB }

func (r memVacRecs) Create(_ context.Context, vr repository.NewVaccineRecommendation) error {
	r.m.calls++
	switch {
	case vr.VaccineID == nil:
		return required("cod_vacuna")
	case vr.RecommendationID == nil:
		return required("cod_recomendacion")
	case vr.AppliedOn == nil:
		return required("fecha_aplicacion")
	}
	if _, ok := r.m.state.vaccines[*vr.VaccineID]; !ok {
		return notRegistered("vacuna")
	}
	if _, ok := r.m.state.recommendations[*vr.RecommendationID]; !ok {
		return notRegistered("recomendacion")
	}
	key := pair{*vr.VaccineID, *vr.RecommendationID}
	if _, ok := r.m.state.vacRecs[key]; ok {
		return duplicate("recomendacion_vacuna", "cod_vacuna, cod_recomendacion")
	}
	r.m.state.vacRecs[key] = entity.VaccineRecommendation{VaccineID: key.a, RecommendationID: key.b, AppliedOn: *vr.AppliedOn}
	return nil
}

func (r memVacRecs) Delete(_ context.Context, vaccineID, recommendationID int64) error {
	r.m.calls++
	key := pair{vaccineID, recommendationID}
	if _, ok := r.m.state.vacRecs[key]; !ok {
		return entity.ErrNoRowsAffected
	}
	delete(r.m.state.vacRecs, key)
	return nil
}

func (r memVacRecs) ReportByVaccineID(_ context.Context, vaccineID int64) ([]entity.RecommendationReportRow, error) {
	var out []entity.RecommendationReportRow
	for k, vr := range r.m.state.vacRecs {
		if k.a != vaccineID {
			continue
		}
		rec := r.m.state.recommendations[k.b]
		out = append(out, entity.RecommendationReportRow{
			VaccineID: k.a, VaccineName: r.m.state.vaccines[k.a],
			RecommendationID: k.b, Organization: rec.Organization, Description: rec.Description,
			AppliedOn: vr.AppliedOn,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecommendationID < out[j].RecommendationID })
	return out, nil
}

func (r memVacRecs) ReportByVaccineName(ctx context.Context, name string) ([]entity.RecommendationReportRow, error) {
	v, _ := memVaccines(r).FindByName(ctx, name)
	if v == nil {
		return nil, nil
	}
	return r.ReportByVaccineID(ctx, v.ID)
}
