package dataset

import (
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMonths - длина набора данных по умолчанию
const DefaultMonths = 24

// Параметры распределений синтетических данных
const (
	engineeringJobsMean = 200.0
	otherJobsMean       = 150.0
	layoffsMean         = 40.0
	salaryMean          = 145000.0
	salaryStdDev        = 15000.0
)

// Generator создает синтетический набор наблюдений
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// GeneratorOption настраивает Generator
type GeneratorOption func(*Generator)

// WithRand задает источник случайных чисел
func WithRand(rng *rand.Rand) GeneratorOption {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithSeed задает детерминированный источник случайных чисел
func WithSeed(seed uint64) GeneratorOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithClock задает функцию текущего времени
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator создает новый генератор
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Generate возвращает months последовательных месяцев, заканчивая текущим,
// по одному наблюдению на каждую комбинацию (месяц, регион, роль).
// Порядок: месяц по возрастанию, затем регион, затем роль.
// При months <= 0 возвращается пустой набор.
func (g *Generator) Generate(months int) []Observation {
	if months <= 0 {
		return []Observation{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	current := MonthOf(g.now())
	first := current.AddMonths(-(months - 1))

	engineeringJobs := distuv.Poisson{Lambda: engineeringJobsMean, Src: g.rng}
	otherJobs := distuv.Poisson{Lambda: otherJobsMean, Src: g.rng}
	layoffs := distuv.Poisson{Lambda: layoffsMean, Src: g.rng}
	salary := distuv.Normal{Mu: salaryMean, Sigma: salaryStdDev, Src: g.rng}

	data := make([]Observation, 0, months*len(Regions)*len(Roles))
	for i := 0; i < months; i++ {
		month := first.AddMonths(i)
		for _, region := range Regions {
			for _, role := range Roles {
				jobs := otherJobs
				if role.IsEngineering() {
					jobs = engineeringJobs
				}
				data = append(data, Observation{
					Month:     month,
					Region:    region,
					Role:      role,
					Jobs:      int(jobs.Rand()),
					Layoffs:   int(layoffs.Rand()),
					SalaryMid: salary.Rand(),
				})
			}
		}
	}
	return data
}
