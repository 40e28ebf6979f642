package forecast

import (
	"github.com/LilVoxy/ai_talent_pulse/dataset"
)

// DataPoint представляет точку данных для линейной регрессии
type DataPoint struct {
	X     float64       `json:"x"`     // Порядковый номер месяца (относительно начала периода)
	Y     float64       `json:"y"`     // Количество вакансий за месяц
	Month dataset.Month `json:"month"` // Фактический месяц
}

// RegressionResult содержит результаты линейной регрессии
type RegressionResult struct {
	A           float64       `json:"a"`  // Коэффициент наклона
	B           float64       `json:"b"`  // Сдвиг
	R           float64       `json:"r"`  // Коэффициент корреляции Пирсона
	R2          float64       `json:"r2"` // Коэффициент детерминации
	PeriodStart dataset.Month `json:"period_start"`
	PeriodEnd   dataset.Month `json:"period_end"`
	DataPoints  []DataPoint   `json:"-"`
}

// ForecastPoint представляет точку прогноза
type ForecastPoint struct {
	Month         dataset.Month `json:"month"`
	ForecastValue float64       `json:"forecast"`
	CILower       float64       `json:"ci_lower"`
	CIUpper       float64       `json:"ci_upper"`
}

// Config содержит параметры прогноза
type Config struct {
	Horizon         int     // На сколько месяцев вперед строить прогноз
	ConfidenceLevel float64 // Уровень доверия: 0.90, 0.95 или 0.99
}

// DefaultConfig возвращает параметры прогноза по умолчанию
func DefaultConfig() Config {
	return Config{
		Horizon:         3,
		ConfidenceLevel: 0.95,
	}
}

// Report - регрессия вместе с прогнозом
type Report struct {
	Regression RegressionResult `json:"regression"`
	Forecasts  []ForecastPoint  `json:"forecasts"`
}
