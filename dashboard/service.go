package dashboard

import (
	"fmt"

	"github.com/LilVoxy/ai_talent_pulse/config"
	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/forecast"
	"github.com/LilVoxy/ai_talent_pulse/pipeline"
)

// Options содержит настройки сервиса дашборда
type Options struct {
	Months   int
	Defaults pipeline.FilterParams
	Forecast forecast.Config
}

// Service связывает кэш набора данных и пайплайн для HTTP и WebSocket слоев
type Service struct {
	cache    *dataset.Cache
	pipeline *pipeline.Pipeline
	opts     Options
}

// View - ответ дашборда: параметры, KPI для карточек и результат пайплайна
type View struct {
	Params     pipeline.FilterParams `json:"params"`
	Cutoff     dataset.Month         `json:"cutoff"`
	KPIDisplay pipeline.KPIDisplay   `json:"kpi_display"`
	pipeline.Result
}

// FilterOptions описывает элементы управления фильтрами
type FilterOptions struct {
	MinMonthsBack int                     `json:"min_months_back"`
	MaxMonthsBack int                     `json:"max_months_back"`
	Regions       []pipeline.RegionFilter `json:"regions"`
	Roles         []dataset.Role          `json:"roles"`
	Defaults      pipeline.FilterParams   `json:"defaults"`
}

// NewService создает сервис дашборда
func NewService(cache *dataset.Cache, p *pipeline.Pipeline, opts Options) *Service {
	if opts.Months <= 0 {
		opts.Months = dataset.DefaultMonths
	}
	if opts.Forecast.Horizon <= 0 {
		opts.Forecast = forecast.DefaultConfig()
	}
	return &Service{
		cache:    cache,
		pipeline: p,
		opts:     opts,
	}
}

// DefaultsFromConfig разбирает фильтры по умолчанию из конфигурации
func DefaultsFromConfig(cfg config.DatasetConfig) (pipeline.FilterParams, error) {
	region, err := pipeline.ParseRegionFilter(cfg.DefaultRegion)
	if err != nil {
		return pipeline.FilterParams{}, fmt.Errorf("dataset.default_region: %w", err)
	}

	roles := make([]dataset.Role, 0, len(cfg.DefaultRoles))
	for _, s := range cfg.DefaultRoles {
		role, err := dataset.ParseRole(s)
		if err != nil {
			return pipeline.FilterParams{}, fmt.Errorf("dataset.default_roles: %w", err)
		}
		roles = append(roles, role)
	}

	params := pipeline.FilterParams{
		MonthsBack: cfg.DefaultMonthsBack,
		Region:     region,
		Roles:      roles,
	}
	if err := params.Validate(); err != nil {
		return pipeline.FilterParams{}, fmt.Errorf("фильтры по умолчанию: %w", err)
	}
	return params, nil
}

// Months возвращает длину набора данных сервиса
func (s *Service) Months() int {
	return s.opts.Months
}

// Dataset возвращает закэшированный набор данных сессии
func (s *Service) Dataset() []dataset.Observation {
	return s.cache.Get(s.opts.Months)
}

// Defaults возвращает копию фильтров по умолчанию
func (s *Service) Defaults() pipeline.FilterParams {
	params := s.opts.Defaults
	params.Roles = append([]dataset.Role{}, s.opts.Defaults.Roles...)
	return params
}

// FilterOptions возвращает описание элементов управления фильтрами
func (s *Service) FilterOptions() FilterOptions {
	return FilterOptions{
		MinMonthsBack: pipeline.MinMonthsBack,
		MaxMonthsBack: pipeline.MaxMonthsBack,
		Regions:       pipeline.RegionFilters(),
		Roles:         append([]dataset.Role{}, dataset.Roles...),
		Defaults:      s.Defaults(),
	}
}

// Dashboard проверяет параметры и применяет пайплайн к набору данных сессии
func (s *Service) Dashboard(params pipeline.FilterParams) (*View, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Roles == nil {
		params.Roles = []dataset.Role{}
	}

	result := s.pipeline.Apply(s.Dataset(), params)
	return &View{
		Params:     params,
		Cutoff:     s.pipeline.Cutoff(params.MonthsBack),
		KPIDisplay: result.KPIs.Display(),
		Result:     result,
	}, nil
}

// Observations возвращает только отфильтрованную таблицу
func (s *Service) Observations(params pipeline.FilterParams) ([]dataset.Observation, error) {
	view, err := s.Dashboard(params)
	if err != nil {
		return nil, err
	}
	return view.Filtered, nil
}

// Forecast строит прогноз вакансий по тренду отфильтрованных данных.
// horizon <= 0 означает горизонт из настроек.
func (s *Service) Forecast(params pipeline.FilterParams, horizon int) (*forecast.Report, error) {
	view, err := s.Dashboard(params)
	if err != nil {
		return nil, err
	}

	cfg := s.opts.Forecast
	if horizon > 0 {
		cfg.Horizon = horizon
	}
	return forecast.Run(view.Trend, cfg)
}
