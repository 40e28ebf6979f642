package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/pipeline"
)

// parseFilterParams читает фильтры из строки запроса поверх значений по умолчанию.
// Параметр roles может повторяться или содержать список через запятую;
// присутствующий, но пустой roles означает "все роли".
func parseFilterParams(r *http.Request, defaults pipeline.FilterParams) (pipeline.FilterParams, error) {
	query := r.URL.Query()
	params := defaults

	// Поддержка альтернативного формата параметра (months_back)
	monthsStr := query.Get("monthsBack")
	if monthsStr == "" {
		monthsStr = query.Get("months_back")
	}
	if monthsStr != "" {
		months, err := strconv.Atoi(monthsStr)
		if err != nil {
			return params, fmt.Errorf("%w: %q", pipeline.ErrInvalidMonthsBack, monthsStr)
		}
		params.MonthsBack = months
	}

	// Присутствующий, но пустой region - ошибка, а не значение по умолчанию
	if values, ok := query["region"]; ok {
		region, err := pipeline.ParseRegionFilter(strings.ToUpper(strings.TrimSpace(values[0])))
		if err != nil {
			return params, err
		}
		params.Region = region
	}

	if values, ok := query["roles"]; ok {
		roles := make([]dataset.Role, 0, len(values))
		for _, value := range values {
			for _, name := range strings.Split(value, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				role, err := dataset.ParseRole(name)
				if err != nil {
					return params, fmt.Errorf("%w: %q", pipeline.ErrInvalidRole, name)
				}
				roles = append(roles, role)
			}
		}
		params.Roles = roles
	}

	return params, nil
}

// parseHorizon читает горизонт прогноза; 0 означает значение из настроек
func parseHorizon(r *http.Request) (int, error) {
	horizonStr := r.URL.Query().Get("horizon")
	if horizonStr == "" {
		return 0, nil
	}
	horizon, err := strconv.Atoi(horizonStr)
	if err != nil || horizon < 1 || horizon > pipeline.MaxMonthsBack {
		return 0, fmt.Errorf("неверный горизонт прогноза %q (допустимо 1..%d)", horizonStr, pipeline.MaxMonthsBack)
	}
	return horizon, nil
}
