package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/ai_talent_pulse/dashboard"
	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/forecast"
	"github.com/LilVoxy/ai_talent_pulse/pipeline"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

func clock() time.Time {
	return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
}

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	g := dataset.NewGenerator(dataset.WithSeed(13), dataset.WithClock(clock))
	service := dashboard.NewService(
		dataset.NewCache(g, utils.NewDiscardLogger()),
		pipeline.New(pipeline.WithClock(clock)),
		dashboard.Options{Months: 24, Defaults: pipeline.DefaultParams()},
	)

	router := mux.NewRouter()
	SetupRoutes(router, service, nil, "*", "", utils.NewDiscardLogger())
	return router
}

func get(t *testing.T, router http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestDashboardHandlerDefaults(t *testing.T) {
	rec := get(t, newRouter(t), "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var view dashboard.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, pipeline.DefaultParams(), view.Params)
	assert.Len(t, view.Filtered, 36)
	assert.Equal(t, pipeline.FormatRatio(view.KPIs.HiringRatio), view.KPIDisplay.HiringRatio)
}

func TestDashboardHandlerFilters(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantRows int
	}{
		{name: "empty roles means all roles", url: "/api/dashboard?monthsBack=3&roles=", wantRows: 3 * 3 * 4},
		{name: "repeated roles", url: "/api/dashboard?months_back=2&region=emea&roles=AI%20Engineer&roles=Data%20Scientist", wantRows: 2 * 2},
		{name: "comma separated roles", url: "/api/dashboard?monthsBack=1&region=APAC&roles=ML%20Engineer,Prompt%20Engineer", wantRows: 2},
		{name: "all months", url: "/api/dashboard?monthsBack=24&region=ALL&roles=", wantRows: 288},
	}

	router := newRouter(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, router, tc.url)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var view dashboard.View
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
			assert.Len(t, view.Filtered, tc.wantRows)
		})
	}
}

func TestDashboardHandlerRejectsInvalidParams(t *testing.T) {
	router := newRouter(t)

	for _, url := range []string{
		"/api/dashboard?monthsBack=0",
		"/api/dashboard?monthsBack=25",
		"/api/dashboard?monthsBack=six",
		"/api/dashboard?region=LATAM",
		"/api/dashboard?region=",
		"/api/observations?monthsBack=3&region=",
		"/api/dashboard?roles=Astronaut",
		"/api/observations?monthsBack=-1",
		"/api/forecast?horizon=0",
	} {
		rec := get(t, router, url)
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
	}
}

func TestObservationsHandler(t *testing.T) {
	rec := get(t, newRouter(t), "/api/observations?monthsBack=1&region=AMER&roles=")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ObservationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	for _, o := range resp.Observations {
		assert.Equal(t, dataset.RegionAMER, o.Region)
		assert.Equal(t, dataset.NewMonth(2026, time.October), o.Month)
	}
}

func TestOptionsHandler(t *testing.T) {
	rec := get(t, newRouter(t), "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts dashboard.FilterOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, 24, opts.MaxMonthsBack)
	assert.Len(t, opts.Regions, 4)
	assert.Len(t, opts.Roles, 4)
}

func TestForecastHandler(t *testing.T) {
	router := newRouter(t)

	rec := get(t, router, "/api/forecast?monthsBack=12&horizon=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report forecast.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.Forecasts, 2)

	rec = get(t, router, "/api/forecast?monthsBack=1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newRouter(t)
	get(t, router, "/api/dashboard")

	rec := get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "talent_pulse_pipeline_apply_seconds")
}
