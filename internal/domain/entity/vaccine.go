package entity

import "time"

// Vaccine is a row of the vacuna table. Names are stored upper-cased.
type Vaccine struct {
	ID   int64
	Name string
}

// Statistic is a row of the estadistica table. Names are stored upper-cased.
type Statistic struct {
	ID   int64
	Name string
}

// Recommendation is a row of the recomendacion table.
type Recommendation struct {
	ID           int64
	Organization string
	Description  string
}

// VaccineStatistic links a statistic value to a vaccine (estadistica_vacuna).
type VaccineStatistic struct {
	VaccineID   int64
	StatisticID int64
	Value       float64
	Description *string
}

// VaccineRecommendation links a recommendation to a vaccine (recomendacion_vacuna).
type VaccineRecommendation struct {
	VaccineID        int64
	RecommendationID int64
	AppliedOn        time.Time
}

// StatisticReportRow is one denormalized row of the vaccine statistics report.
type StatisticReportRow struct {
	VaccineID     int64
	VaccineName   string
	StatisticID   int64
	StatisticName string
	Value         float64
	Description   *string
}

// RecommendationReportRow is one denormalized row of the vaccine recommendations report.
type RecommendationReportRow struct {
	VaccineID        int64
	VaccineName      string
	RecommendationID int64
	Organization     string
	Description      string
	AppliedOn        time.Time
}
