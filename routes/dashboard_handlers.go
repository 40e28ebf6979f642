// routes/dashboard_handlers.go
package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/LilVoxy/ai_talent_pulse/dashboard"
	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/forecast"
	"github.com/LilVoxy/ai_talent_pulse/pipeline"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

// ObservationsResponse структура ответа API для таблицы наблюдений
type ObservationsResponse struct {
	Params       pipeline.FilterParams `json:"params"`
	Count        int                   `json:"count"`
	Observations []dataset.Observation `json:"observations"`
}

// ErrorResponse структура ответа API с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetOptionsHandler возвращает описание элементов управления фильтрами
func GetOptionsHandler(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.FilterOptions(), nil)
	}
}

// GetDashboardHandler обрабатывает запросы на получение KPI, тренда и сводки по ролям
func GetDashboardHandler(service *dashboard.Service, logger *utils.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseFilterParams(r, service.Defaults())
		if err != nil {
			writeError(w, err, logger)
			return
		}

		view, err := service.Dashboard(params)
		if err != nil {
			writeError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, view, logger)
		logger.Debug("✅ Отправлен дашборд: строк=%d, вакансий=%d", len(view.Filtered), view.KPIs.TotalJobs)
	}
}

// GetObservationsHandler обрабатывает запросы на получение отфильтрованной таблицы
func GetObservationsHandler(service *dashboard.Service, logger *utils.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseFilterParams(r, service.Defaults())
		if err != nil {
			writeError(w, err, logger)
			return
		}

		observations, err := service.Observations(params)
		if err != nil {
			writeError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, ObservationsResponse{
			Params:       params,
			Count:        len(observations),
			Observations: observations,
		}, logger)
	}
}

// GetForecastHandler обрабатывает запросы на прогноз вакансий
func GetForecastHandler(service *dashboard.Service, logger *utils.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseFilterParams(r, service.Defaults())
		if err != nil {
			writeError(w, err, logger)
			return
		}

		horizon, err := parseHorizon(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()}, logger)
			return
		}

		report, err := service.Forecast(params, horizon)
		if err != nil {
			writeError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, report, logger)
	}
}

// writeError выбирает HTTP-статус по типу ошибки
func writeError(w http.ResponseWriter, err error, logger *utils.Logger) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrInvalidMonthsBack),
		errors.Is(err, pipeline.ErrInvalidRegion),
		errors.Is(err, pipeline.ErrInvalidRole):
		status = http.StatusBadRequest
	case errors.Is(err, forecast.ErrNotEnoughPoints):
		status = http.StatusUnprocessableEntity
	default:
		if logger != nil {
			logger.Error("❌ Ошибка при обработке запроса: %v", err)
		}
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()}, logger)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *utils.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error("❌ Ошибка при кодировании JSON: %v", err)
	}
}
