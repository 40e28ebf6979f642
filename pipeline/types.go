package pipeline

import (
	"github.com/LilVoxy/ai_talent_pulse/dataset"
)

// Series - название ряда в длинном формате тренда
type Series string

const (
	SeriesJobs    Series = "jobs"
	SeriesLayoffs Series = "layoffs"
)

// KPIs - сводные показатели для карточек дашборда
type KPIs struct {
	TotalJobs    int     `json:"total_jobs"`
	TotalLayoffs int     `json:"total_layoffs"`
	HiringRatio  float64 `json:"hiring_ratio"`
}

// TrendPoint - строка тренда в длинном формате: одна строка на пару (месяц, ряд)
type TrendPoint struct {
	Month  dataset.Month `json:"month"`
	Series Series        `json:"series"`
	Count  int           `json:"count"`
}

// RoleSummary - агрегаты по роли
type RoleSummary struct {
	Role      dataset.Role `json:"role"`
	Jobs      int          `json:"jobs"`
	Layoffs   int          `json:"layoffs"`
	AvgSalary float64      `json:"avg_salary"`
}

// Result - результат фильтрации и агрегации
type Result struct {
	Filtered    []dataset.Observation `json:"filtered"`
	KPIs        KPIs                  `json:"kpis"`
	Trend       []TrendPoint          `json:"trend"`
	RoleSummary []RoleSummary         `json:"role_summary"`
}
