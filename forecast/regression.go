package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/LilVoxy/ai_talent_pulse/pipeline"
)

// ErrNotEnoughPoints возвращается, если в тренде меньше двух месяцев
var ErrNotEnoughPoints = errors.New("недостаточно точек для регрессии")

// RoundToThousandth округляет число до тысячных (3 знака после запятой)
func RoundToThousandth(value float64) float64 {
	return math.Round(value*1000) / 1000
}

// PointsFromTrend извлекает ряд вакансий из тренда в длинном формате.
// X - номер месяца от первого месяца ряда.
func PointsFromTrend(trend []pipeline.TrendPoint) []DataPoint {
	var jobs []pipeline.TrendPoint
	for _, p := range trend {
		if p.Series == pipeline.SeriesJobs {
			jobs = append(jobs, p)
		}
	}
	if len(jobs) == 0 {
		return nil
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Month.Before(jobs[j].Month.Time)
	})

	first := jobs[0].Month
	points := make([]DataPoint, 0, len(jobs))
	for _, p := range jobs {
		points = append(points, DataPoint{
			X:     float64(monthsBetween(first.Time.Year(), int(first.Time.Month()), p.Month.Time.Year(), int(p.Month.Time.Month()))),
			Y:     float64(p.Count),
			Month: p.Month,
		})
	}
	return points
}

func monthsBetween(y1, m1, y2, m2 int) int {
	return (y2-y1)*12 + (m2 - m1)
}

// LinearRegression выполняет расчет линейной регрессии методом наименьших квадратов
func LinearRegression(points []DataPoint) (*RegressionResult, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: требуется минимум 2, получено %d", ErrNotEnoughPoints, len(points))
	}

	minMonth := points[0].Month
	maxMonth := points[0].Month
	for _, p := range points {
		if p.Month.Before(minMonth.Time) {
			minMonth = p.Month
		}
		if p.Month.After(maxMonth.Time) {
			maxMonth = p.Month
		}
	}

	// a = (n*sum(x*y) - sum(x)*sum(y)) / (n*sum(x^2) - (sum(x))^2)
	// b = (sum(y) - a*sum(x)) / n
	n := float64(len(points))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumX2 += p.X * p.X
		sumY2 += p.Y * p.Y
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return nil, fmt.Errorf("все X одинаковы, невозможно вычислить наклон")
	}

	a := (n*sumXY - sumX*sumY) / denominator
	b := (sumY - a*sumX) / n

	// r = (n*sum(x*y) - sum(x)*sum(y)) / sqrt[(n*sum(x^2) - (sum(x))^2) * (n*sum(y^2) - (sum(y))^2)]
	numerator := n*sumXY - sumX*sumY
	denominator = math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))

	var r float64
	if math.Abs(denominator) >= 1e-10 {
		r = numerator / denominator
	}

	return &RegressionResult{
		A:           RoundToThousandth(a),
		B:           RoundToThousandth(b),
		R:           RoundToThousandth(r),
		R2:          RoundToThousandth(r * r),
		PeriodStart: minMonth,
		PeriodEnd:   maxMonth,
		DataPoints:  points,
	}, nil
}

// Predict прогнозирует значение Y для заданного X
func Predict(result *RegressionResult, x float64) float64 {
	return RoundToThousandth(result.A*x + result.B)
}

// tStatistic - приближенные значения t-статистики вместо таблицы Стьюдента
func tStatistic(confidenceLevel float64) float64 {
	switch confidenceLevel {
	case 0.99:
		return 2.58
	case 0.90:
		return 1.64
	default:
		return 2.0
	}
}

// CalculateConfidenceInterval вычисляет доверительный интервал прогноза в точке x.
// При двух точках остатков нет, и интервал вырождается в точку.
func CalculateConfidenceInterval(result *RegressionResult, x float64, confidenceLevel float64) (float64, float64) {
	yPred := Predict(result, x)
	n := float64(len(result.DataPoints))
	if n <= 2 {
		return yPred, yPred
	}

	meanX := 0.0
	for _, p := range result.DataPoints {
		meanX += p.X
	}
	meanX /= n

	sumSqDevX := 0.0
	sumSqResiduals := 0.0
	for _, p := range result.DataPoints {
		predY := Predict(result, p.X)
		sumSqDevX += (p.X - meanX) * (p.X - meanX)
		sumSqResiduals += (p.Y - predY) * (p.Y - predY)
	}

	standardError := math.Sqrt(sumSqResiduals / (n - 2))
	predictionStdError := standardError * math.Sqrt(1+1/n+(x-meanX)*(x-meanX)/sumSqDevX)
	margin := tStatistic(confidenceLevel) * predictionStdError

	return RoundToThousandth(yPred - margin), RoundToThousandth(yPred + margin)
}

// GenerateForecasts генерирует прогнозы на указанное количество месяцев вперед
func GenerateForecasts(result *RegressionResult, monthsAhead int, confidenceLevel float64) []ForecastPoint {
	if monthsAhead <= 0 {
		return []ForecastPoint{}
	}
	forecasts := make([]ForecastPoint, monthsAhead)

	maxX := 0.0
	for _, p := range result.DataPoints {
		if p.X > maxX {
			maxX = p.X
		}
	}

	for i := 0; i < monthsAhead; i++ {
		x := maxX + float64(i+1)
		lower, upper := CalculateConfidenceInterval(result, x, confidenceLevel)
		forecasts[i] = ForecastPoint{
			Month:         result.PeriodEnd.AddMonths(i + 1),
			ForecastValue: Predict(result, x),
			CILower:       lower,
			CIUpper:       upper,
		}
	}
	return forecasts
}

// Run строит регрессию по тренду результата пайплайна и прогноз на cfg.Horizon месяцев
func Run(trend []pipeline.TrendPoint, cfg Config) (*Report, error) {
	result, err := LinearRegression(PointsFromTrend(trend))
	if err != nil {
		return nil, err
	}
	return &Report{
		Regression: *result,
		Forecasts:  GenerateForecasts(result, cfg.Horizon, cfg.ConfidenceLevel),
	}, nil
}
