package dataset

import (
	"strconv"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/LilVoxy/ai_talent_pulse/metrics"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

// Cache мемоизирует наборы данных по количеству месяцев на время жизни процесса.
// Инвалидации нет: повторный вызов с тем же months возвращает тот же срез.
type Cache struct {
	generator *Generator
	items     *gocache.Cache
	group     singleflight.Group
	logger    *utils.Logger
}

// NewCache создает кэш поверх генератора
func NewCache(generator *Generator, logger *utils.Logger) *Cache {
	return &Cache{
		generator: generator,
		items:     gocache.New(gocache.NoExpiration, 0),
		logger:    logger,
	}
}

// Get возвращает набор данных для months, генерируя его при первом обращении.
// Параллельные первые обращения с одним ключом выполняют генерацию один раз.
func (c *Cache) Get(months int) []Observation {
	key := strconv.Itoa(months)
	if data, ok := c.items.Get(key); ok {
		return data.([]Observation)
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if data, ok := c.items.Get(key); ok {
			return data, nil
		}
		data := c.generator.Generate(months)
		c.items.Set(key, data, gocache.NoExpiration)
		metrics.RecordGeneration("generated", key, len(data))
		c.logger.Info("Сгенерирован набор данных: месяцев=%d, строк=%d", months, len(data))
		return data, nil
	})
	return v.([]Observation)
}

// Peek возвращает набор данных, только если он уже есть в кэше
func (c *Cache) Peek(months int) ([]Observation, bool) {
	data, ok := c.items.Get(strconv.Itoa(months))
	if !ok {
		return nil, false
	}
	return data.([]Observation), true
}

// Seed помещает в кэш готовый набор данных (например, восстановленный из снимка).
// Возвращает false, если набор для months уже есть - существующий не перезаписывается.
func (c *Cache) Seed(months int, data []Observation) bool {
	key := strconv.Itoa(months)
	if err := c.items.Add(key, data, gocache.NoExpiration); err != nil {
		return false
	}
	metrics.RecordGeneration("snapshot", key, len(data))
	c.logger.Info("Набор данных восстановлен из снимка: месяцев=%d, строк=%d", months, len(data))
	return true
}
