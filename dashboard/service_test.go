package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/ai_talent_pulse/config"
	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/forecast"
	"github.com/LilVoxy/ai_talent_pulse/pipeline"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

func clock() time.Time {
	return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
}

func newTestService() *Service {
	g := dataset.NewGenerator(dataset.WithSeed(21), dataset.WithClock(clock))
	cache := dataset.NewCache(g, utils.NewDiscardLogger())
	return NewService(cache, pipeline.New(pipeline.WithClock(clock)), Options{
		Months:   24,
		Defaults: pipeline.DefaultParams(),
	})
}

func TestDashboardDefaults(t *testing.T) {
	s := newTestService()

	view, err := s.Dashboard(s.Defaults())
	require.NoError(t, err)

	assert.Equal(t, dataset.NewMonth(2026, time.May), view.Cutoff)
	assert.Len(t, view.Filtered, 6*3*2)
	assert.Equal(t, pipeline.FormatCount(view.KPIs.TotalJobs), view.KPIDisplay.Jobs)
	assert.Len(t, view.Trend, 12)
	assert.Len(t, view.RoleSummary, 2)
}

func TestDashboardUsesSessionDataset(t *testing.T) {
	s := newTestService()

	first, err := s.Dashboard(pipeline.FilterParams{MonthsBack: 24, Region: pipeline.RegionAll})
	require.NoError(t, err)
	second, err := s.Dashboard(pipeline.FilterParams{MonthsBack: 24, Region: pipeline.RegionAll})
	require.NoError(t, err)

	assert.Equal(t, first.KPIs, second.KPIs)
	assert.Same(t, &s.Dataset()[0], &s.Dataset()[0])
}

func TestDashboardNilRolesMeansAll(t *testing.T) {
	s := newTestService()

	view, err := s.Dashboard(pipeline.FilterParams{MonthsBack: 2, Region: "EMEA"})
	require.NoError(t, err)

	assert.NotNil(t, view.Params.Roles)
	assert.Len(t, view.Filtered, 2*4)
}

func TestDashboardRejectsInvalidParams(t *testing.T) {
	s := newTestService()

	_, err := s.Dashboard(pipeline.FilterParams{MonthsBack: 30, Region: pipeline.RegionAll})
	assert.True(t, errors.Is(err, pipeline.ErrInvalidMonthsBack))

	_, err = s.Observations(pipeline.FilterParams{MonthsBack: 3, Region: "MARS"})
	assert.True(t, errors.Is(err, pipeline.ErrInvalidRegion))
}

func TestDefaultsAreCopied(t *testing.T) {
	s := newTestService()

	d := s.Defaults()
	d.Roles[0] = dataset.RoleDataScientist

	assert.Equal(t, dataset.RoleAIEngineer, s.Defaults().Roles[0])
}

func TestFilterOptions(t *testing.T) {
	opts := newTestService().FilterOptions()

	assert.Equal(t, 1, opts.MinMonthsBack)
	assert.Equal(t, 24, opts.MaxMonthsBack)
	assert.Equal(t, pipeline.RegionFilters(), opts.Regions)
	assert.Equal(t, dataset.Roles, opts.Roles)
	assert.Equal(t, 6, opts.Defaults.MonthsBack)
}

func TestForecast(t *testing.T) {
	s := newTestService()

	report, err := s.Forecast(pipeline.FilterParams{MonthsBack: 12, Region: pipeline.RegionAll}, 4)
	require.NoError(t, err)
	require.Len(t, report.Forecasts, 4)
	assert.Equal(t, dataset.NewMonth(2026, time.November), report.Forecasts[0].Month)

	report, err = s.Forecast(pipeline.FilterParams{MonthsBack: 12, Region: pipeline.RegionAll}, 0)
	require.NoError(t, err)
	assert.Len(t, report.Forecasts, forecast.DefaultConfig().Horizon)

	_, err = s.Forecast(pipeline.FilterParams{MonthsBack: 1, Region: pipeline.RegionAll}, 3)
	assert.True(t, errors.Is(err, forecast.ErrNotEnoughPoints))
}

func TestDefaultsFromConfig(t *testing.T) {
	params, err := DefaultsFromConfig(config.GetConfig().Dataset)
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultParams(), params)

	cfg := config.GetConfig().Dataset
	cfg.DefaultRoles = []string{"Astronaut"}
	_, err = DefaultsFromConfig(cfg)
	assert.Error(t, err)

	cfg = config.GetConfig().Dataset
	cfg.DefaultMonthsBack = 0
	_, err = DefaultsFromConfig(cfg)
	assert.Error(t, err)
}
