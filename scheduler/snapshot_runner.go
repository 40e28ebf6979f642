package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/LilVoxy/ai_talent_pulse/config"
	"github.com/LilVoxy/ai_talent_pulse/database"
	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/metrics"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

// Notifier получает уведомления о сохраненных снимках
type Notifier interface {
	NotifySnapshot(snapshot database.Snapshot)
}

// SnapshotRunner сохраняет набор данных сессии в хранилище и удаляет устаревшие снимки
type SnapshotRunner struct {
	config   config.SnapshotConfig
	months   int
	cache    *dataset.Cache
	repo     database.SnapshotRepository
	notifier Notifier
	logger   *utils.Logger
	now      func() time.Time

	mu          sync.Mutex
	persistedID string
}

// NewSnapshotRunner создает новый экземпляр SnapshotRunner. notifier может быть nil.
func NewSnapshotRunner(
	cfg config.SnapshotConfig,
	months int,
	cache *dataset.Cache,
	repo database.SnapshotRepository,
	notifier Notifier,
	logger *utils.Logger,
) *SnapshotRunner {
	return &SnapshotRunner{
		config:   cfg,
		months:   months,
		cache:    cache,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Restore помещает в кэш последний сохраненный снимок, если он заканчивается текущим месяцем.
// Вызывается до первого обращения к кэшу.
func (r *SnapshotRunner) Restore(ctx context.Context) (bool, error) {
	snapshot, err := r.repo.GetLatestSnapshot(ctx, r.months)
	if err != nil {
		return false, fmt.Errorf("ошибка при получении последнего снимка: %w", err)
	}
	if snapshot == nil || len(snapshot.Observations) == 0 {
		r.logger.Info("Сохраненных снимков нет, набор данных будет сгенерирован")
		return false, nil
	}

	last := snapshot.Observations[len(snapshot.Observations)-1].Month
	if !last.Equal(dataset.MonthOf(r.now()).Time) {
		r.logger.Info("Снимок %s устарел (последний месяц %s), набор данных будет сгенерирован", snapshot.ID, last)
		return false, nil
	}

	if !r.cache.Seed(r.months, snapshot.Observations) {
		return false, nil
	}

	r.mu.Lock()
	r.persistedID = snapshot.ID
	r.mu.Unlock()
	return true, nil
}

// ExecuteSnapshot сохраняет набор данных сессии, если он еще не сохранен,
// и удаляет снимки старше срока хранения
func (r *SnapshotRunner) ExecuteSnapshot(ctx context.Context) error {
	startTime := r.now()
	r.logger.LogSnapshotStart(r.months)

	// Создаем запись в журнале запусков
	runID, err := r.repo.CreateRunEntry(ctx, startTime)
	if err != nil {
		metrics.RecordSnapshotSave("failed")
		return fmt.Errorf("ошибка при создании записи в журнале запусков: %w", err)
	}

	logger := r.logger.WithField("run_id", runID)

	snapshot, saved, err := r.saveIfNeeded(ctx, startTime)
	if err != nil {
		r.fail(ctx, logger, runID, err)
		return err
	}

	var pruned int64
	if r.config.Retention > 0 {
		pruned, err = r.repo.DeleteSnapshotsBefore(ctx, startTime.Add(-r.config.Retention))
		if err != nil {
			r.fail(ctx, logger, runID, err)
			return err
		}
		if pruned > 0 {
			logger.Info("Удалено устаревших снимков: %d", pruned)
		}
	}

	rowsSaved := 0
	snapshotID := ""
	if saved {
		rowsSaved = snapshot.RowCount
		snapshotID = snapshot.ID
	}
	if err := r.repo.UpdateRunSuccess(ctx, runID, r.now(), snapshotID, rowsSaved, pruned); err != nil {
		logger.Error("Ошибка при обновлении записи в журнале запусков: %v", err)
	}

	if !saved {
		logger.Debug("Набор данных уже сохранен, новый снимок не требуется")
		metrics.RecordSnapshotSave("skipped")
		return nil
	}

	metrics.RecordSnapshotSave("success")
	logger.LogSnapshotComplete(startTime, snapshot.ID, snapshot.RowCount)
	if r.notifier != nil {
		r.notifier.NotifySnapshot(snapshot)
	}
	return nil
}

func (r *SnapshotRunner) saveIfNeeded(ctx context.Context, now time.Time) (database.Snapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.persistedID != "" {
		return database.Snapshot{}, false, nil
	}

	observations := r.cache.Get(r.months)
	snapshot := database.Snapshot{
		ID:           uuid.NewString(),
		Months:       r.months,
		GeneratedAt:  now,
		RowCount:     len(observations),
		Observations: observations,
	}
	if err := r.repo.SaveSnapshot(ctx, snapshot); err != nil {
		return database.Snapshot{}, false, fmt.Errorf("ошибка при сохранении снимка: %w", err)
	}

	r.persistedID = snapshot.ID
	return snapshot, true, nil
}

// fail обновляет запись в журнале запусков при ошибке
func (r *SnapshotRunner) fail(ctx context.Context, logger *utils.Logger, runID int64, cause error) {
	metrics.RecordSnapshotSave("failed")
	logger.Error("Ошибка сохранения снимка: %v", cause)
	if err := r.repo.UpdateRunFailure(ctx, runID, r.now(), cause.Error()); err != nil {
		logger.Error("Ошибка при обновлении записи в журнале запусков: %v", err)
	}
}

// StartScheduler запускает планировщик сохранения снимков и блокируется до отмены контекста
func (r *SnapshotRunner) StartScheduler(ctx context.Context) error {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	r.logger.Info("Запуск планировщика снимков с интервалом %v", r.config.RunInterval)

	_, err := scheduler.Every(r.config.RunInterval).Do(func() {
		r.logger.Debug("Запланированное сохранение снимка")
		if err := r.ExecuteSnapshot(ctx); err != nil {
			r.logger.Error("Ошибка при выполнении запланированного сохранения: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("ошибка при настройке планировщика: %w", err)
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	scheduler.Stop()
	r.logger.Info("Планировщик снимков остановлен")
	return nil
}
