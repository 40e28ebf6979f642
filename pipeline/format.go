package pipeline

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// KPIDisplay - KPI в виде строк для карточек
type KPIDisplay struct {
	Jobs        string `json:"jobs"`
	Layoffs     string `json:"layoffs"`
	HiringRatio string `json:"hiring_ratio"`
}

// Display форматирует KPI для карточек дашборда
func (k KPIs) Display() KPIDisplay {
	return KPIDisplay{
		Jobs:        FormatCount(k.TotalJobs),
		Layoffs:     FormatCount(k.TotalLayoffs),
		HiringRatio: FormatRatio(k.HiringRatio),
	}
}

// FormatCount форматирует целое число с разделителями тысяч: 1234567 -> "1,234,567"
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatRatio форматирует отношение с двумя знаками: 5 -> "5.00x".
// Разделители тысяч в отношении не ставятся: 1234.5 -> "1234.50x"
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.2fx", r)
}
