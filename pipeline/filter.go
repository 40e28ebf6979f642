package pipeline

import (
	"time"

	"github.com/LilVoxy/ai_talent_pulse/dataset"
)

// Cutoff возвращает первый месяц, попадающий в окно: начало текущего месяца
// минус (monthsBack - 1) месяцев. При monthsBack = 1 остается только текущий месяц.
func Cutoff(now time.Time, monthsBack int) dataset.Month {
	return dataset.MonthOf(now).AddMonths(-(monthsBack - 1))
}

// Filter оставляет наблюдения, удовлетворяющие окну по месяцам, региону и ролям.
// Фильтры объединяются по AND; пустой список ролей ничего не ограничивает.
// Порядок исходного набора сохраняется.
func Filter(data []dataset.Observation, params FilterParams, now time.Time) []dataset.Observation {
	cutoff := Cutoff(now, params.MonthsBack)

	var roles map[dataset.Role]bool
	if len(params.Roles) > 0 {
		roles = make(map[dataset.Role]bool, len(params.Roles))
		for _, r := range params.Roles {
			roles[r] = true
		}
	}

	filtered := make([]dataset.Observation, 0, len(data))
	for _, o := range data {
		if o.Month.Before(cutoff.Time) {
			continue
		}
		if params.Region != RegionAll && RegionFilter(o.Region) != params.Region {
			continue
		}
		if roles != nil && !roles[o.Role] {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}
