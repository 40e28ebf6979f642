package pipeline

import (
	"sort"

	"github.com/LilVoxy/ai_talent_pulse/dataset"
)

// ComputeKPIs считает суммы и отношение найма к увольнениям.
// Знаменатель не меньше 1, поэтому при нуле увольнений отношение равно числу вакансий.
func ComputeKPIs(filtered []dataset.Observation) KPIs {
	var kpis KPIs
	for _, o := range filtered {
		kpis.TotalJobs += o.Jobs
		kpis.TotalLayoffs += o.Layoffs
	}
	denominator := kpis.TotalLayoffs
	if denominator < 1 {
		denominator = 1
	}
	kpis.HiringRatio = float64(kpis.TotalJobs) / float64(denominator)
	return kpis
}

type monthTotals struct {
	month   dataset.Month
	jobs    int
	layoffs int
}

// BuildTrend группирует наблюдения по месяцам и разворачивает суммы в длинный формат:
// сначала все строки ряда jobs по возрастанию месяца, затем все строки ряда layoffs.
func BuildTrend(filtered []dataset.Observation) []TrendPoint {
	byMonth := make(map[int64]*monthTotals)
	for _, o := range filtered {
		key := o.Month.Unix()
		totals, ok := byMonth[key]
		if !ok {
			totals = &monthTotals{month: o.Month}
			byMonth[key] = totals
		}
		totals.jobs += o.Jobs
		totals.layoffs += o.Layoffs
	}

	months := make([]*monthTotals, 0, len(byMonth))
	for _, totals := range byMonth {
		months = append(months, totals)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].month.Before(months[j].month.Time)
	})

	trend := make([]TrendPoint, 0, 2*len(months))
	for _, m := range months {
		trend = append(trend, TrendPoint{Month: m.month, Series: SeriesJobs, Count: m.jobs})
	}
	for _, m := range months {
		trend = append(trend, TrendPoint{Month: m.month, Series: SeriesLayoffs, Count: m.layoffs})
	}
	return trend
}

type roleTotals struct {
	jobs      int
	layoffs   int
	salarySum float64
	count     int
}

// BuildRoleSummary группирует наблюдения по ролям (в алфавитном порядке названий),
// затем устойчиво сортирует по сумме вакансий по убыванию.
func BuildRoleSummary(filtered []dataset.Observation) []RoleSummary {
	byRole := make(map[dataset.Role]*roleTotals)
	for _, o := range filtered {
		totals, ok := byRole[o.Role]
		if !ok {
			totals = &roleTotals{}
			byRole[o.Role] = totals
		}
		totals.jobs += o.Jobs
		totals.layoffs += o.Layoffs
		totals.salarySum += o.SalaryMid
		totals.count++
	}

	roles := make([]dataset.Role, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	summary := make([]RoleSummary, 0, len(roles))
	for _, role := range roles {
		totals := byRole[role]
		summary = append(summary, RoleSummary{
			Role:      role,
			Jobs:      totals.jobs,
			Layoffs:   totals.layoffs,
			AvgSalary: totals.salarySum / float64(totals.count),
		})
	}

	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].Jobs > summary[j].Jobs
	})
	return summary
}
