package pipeline

import (
	"time"

	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/metrics"
)

// Pipeline применяет фильтры к набору данных и строит агрегаты для дашборда.
// Набор данных только читается.
type Pipeline struct {
	now func() time.Time
}

// Option настраивает Pipeline
type Option func(*Pipeline)

// WithClock задает "сегодня", от которого отсчитывается окно месяцев
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New создает Pipeline
func New(opts ...Option) *Pipeline {
	p := &Pipeline{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply фильтрует набор данных и считает KPI, тренд и сводку по ролям.
// Для пустой выборки возвращается корректный результат с нулями и пустыми срезами.
func (p *Pipeline) Apply(data []dataset.Observation, params FilterParams) Result {
	start := time.Now()

	filtered := Filter(data, params, p.now())
	result := Result{
		Filtered:    filtered,
		KPIs:        ComputeKPIs(filtered),
		Trend:       BuildTrend(filtered),
		RoleSummary: BuildRoleSummary(filtered),
	}

	metrics.RecordPipelineApply(time.Since(start), len(filtered))
	return result
}

// Cutoff возвращает первый месяц окна для monthsBack относительно часов Pipeline
func (p *Pipeline) Cutoff(monthsBack int) dataset.Month {
	return Cutoff(p.now(), monthsBack)
}

// Apply выполняет Pipeline с текущим временем
func Apply(data []dataset.Observation, params FilterParams) Result {
	return New().Apply(data, params)
}
