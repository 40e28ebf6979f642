package pipeline

import (
	"errors"
	"fmt"

	"github.com/LilVoxy/ai_talent_pulse/dataset"
)

// Границы и значения фильтров по умолчанию
const (
	MinMonthsBack     = 1
	MaxMonthsBack     = 24
	DefaultMonthsBack = 6
)

// RegionFilter - регион или ALL
type RegionFilter string

// RegionAll отключает фильтр по региону
const RegionAll RegionFilter = "ALL"

var (
	ErrInvalidMonthsBack = errors.New("months_back вне допустимого диапазона")
	ErrInvalidRegion     = errors.New("неизвестный регион")
	ErrInvalidRole       = errors.New("неизвестная роль")
)

// FilterParams - параметры фильтрации, выбранные пользователем.
// Пустой Roles означает отсутствие ограничения по ролям.
type FilterParams struct {
	MonthsBack int            `json:"months_back"`
	Region     RegionFilter   `json:"region"`
	Roles      []dataset.Role `json:"roles"`
}

// DefaultParams возвращает фильтры, с которыми открывается дашборд
func DefaultParams() FilterParams {
	return FilterParams{
		MonthsBack: DefaultMonthsBack,
		Region:     RegionAll,
		Roles:      []dataset.Role{dataset.RoleAIEngineer, dataset.RoleMLEngineer},
	}
}

// RegionFilters возвращает варианты для выбора региона, начиная с ALL
func RegionFilters() []RegionFilter {
	filters := []RegionFilter{RegionAll}
	for _, r := range dataset.Regions {
		filters = append(filters, RegionFilter(r))
	}
	return filters
}

// ParseRegionFilter преобразует строку в фильтр по региону
func ParseRegionFilter(s string) (RegionFilter, error) {
	if RegionFilter(s) == RegionAll {
		return RegionAll, nil
	}
	r, err := dataset.ParseRegion(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidRegion, s)
	}
	return RegionFilter(r), nil
}

// Validate проверяет параметры. Apply параметры не проверяет,
// поэтому границы вызывают Validate до Apply.
func (p FilterParams) Validate() error {
	if p.MonthsBack < MinMonthsBack || p.MonthsBack > MaxMonthsBack {
		return fmt.Errorf("%w: %d (допустимо %d..%d)", ErrInvalidMonthsBack, p.MonthsBack, MinMonthsBack, MaxMonthsBack)
	}
	if _, err := ParseRegionFilter(string(p.Region)); err != nil {
		return err
	}
	for _, role := range p.Roles {
		if _, err := dataset.ParseRole(string(role)); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidRole, role)
		}
	}
	return nil
}
