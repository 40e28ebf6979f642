package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Region - регион рынка труда
type Region string

const (
	RegionAMER Region = "AMER"
	RegionEMEA Region = "EMEA"
	RegionAPAC Region = "APAC"
)

// Regions - фиксированный порядок перечисления регионов
var Regions = []Region{RegionAMER, RegionEMEA, RegionAPAC}

// Role - тип AI-вакансии
type Role string

const (
	RoleAIEngineer     Role = "AI Engineer"
	RoleMLEngineer     Role = "ML Engineer"
	RoleDataScientist  Role = "Data Scientist"
	RolePromptEngineer Role = "Prompt Engineer"
)

// Roles - фиксированный порядок перечисления ролей
var Roles = []Role{RoleAIEngineer, RoleMLEngineer, RoleDataScientist, RolePromptEngineer}

// IsEngineering сообщает, относится ли роль к инженерным (название содержит "Engineer")
func (r Role) IsEngineering() bool {
	return strings.Contains(string(r), "Engineer")
}

// ParseRegion преобразует строку в регион
func ParseRegion(s string) (Region, error) {
	for _, r := range Regions {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("неизвестный регион: %q", s)
}

// ParseRole преобразует строку в роль
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("неизвестная роль: %q", s)
}

const monthLayout = "2006-01-02"

// Month - начало календарного месяца (UTC)
type Month struct {
	time.Time
}

// MonthOf возвращает начало месяца, в который попадает t
func MonthOf(t time.Time) Month {
	return Month{time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// NewMonth создает месяц по году и номеру месяца
func NewMonth(year int, month time.Month) Month {
	return Month{time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)}
}

// AddMonths сдвигает месяц на n месяцев (n может быть отрицательным)
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Time.AddDate(0, n, 0))
}

func (m Month) String() string {
	return m.Time.Format(monthLayout)
}

// MarshalJSON сериализует месяц как "YYYY-MM-DD"
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Time.Format(monthLayout) + `"`), nil
}

// UnmarshalJSON разбирает месяц из "YYYY-MM-DD"
func (m *Month) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return fmt.Errorf("неверный формат месяца %q: %w", s, err)
	}
	*m = MonthOf(t)
	return nil
}

// Observation - одна синтетическая запись для комбинации (месяц, регион, роль)
type Observation struct {
	Month     Month   `json:"month"`
	Region    Region  `json:"region"`
	Role      Role    `json:"role"`
	Jobs      int     `json:"jobs"`
	Layoffs   int     `json:"layoffs"`
	SalaryMid float64 `json:"salary_mid"`
}
