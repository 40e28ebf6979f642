package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/processor"
)

// Snapshot - сохраненный набор наблюдений
type Snapshot struct {
	ID           string                `json:"id"`
	Months       int                   `json:"months"`
	GeneratedAt  time.Time             `json:"generated_at"`
	RowCount     int                   `json:"row_count"`
	Observations []dataset.Observation `json:"-"`
}

// Статусы запуска сохранения снимков
const (
	RunStatusInProgress = "in_progress"
	RunStatusSuccess    = "success"
	RunStatusFailed     = "failed"
)

// ErrCorruptSnapshot возвращается, если число строк в снимке не совпадает с row_count
var ErrCorruptSnapshot = errors.New("снимок поврежден")

// Запросы журнала запусков; статус всегда передается параметром
const (
	createRunEntryQuery = `
	INSERT INTO snapshot_run_log (start_time, status)
	VALUES (?, ?)
	`

	updateRunSuccessQuery = `
	UPDATE snapshot_run_log
	SET
		end_time = ?,
		status = ?,
		snapshot_id = NULLIF(?, ''),
		rows_saved = ?,
		snapshots_pruned = ?
	WHERE id = ?
	`

	updateRunFailureQuery = `
	UPDATE snapshot_run_log
	SET
		end_time = ?,
		status = ?,
		error_message = ?
	WHERE id = ?
	`
)

// SnapshotRepository интерфейс для работы с хранилищем снимков
type SnapshotRepository interface {
	// SaveSnapshot сохраняет снимок набора данных
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error

	// GetLatestSnapshot возвращает последний снимок для months или nil, если снимков нет
	GetLatestSnapshot(ctx context.Context, months int) (*Snapshot, error)

	// DeleteSnapshotsBefore удаляет снимки, созданные раньше before
	DeleteSnapshotsBefore(ctx context.Context, before time.Time) (int64, error)

	// CreateRunEntry создает запись о запуске сохранения
	CreateRunEntry(ctx context.Context, startTime time.Time) (int64, error)

	// UpdateRunSuccess отмечает запуск как успешный
	UpdateRunSuccess(ctx context.Context, id int64, endTime time.Time, snapshotID string, rowsSaved int, pruned int64) error

	// UpdateRunFailure отмечает запуск как неудачный
	UpdateRunFailure(ctx context.Context, id int64, endTime time.Time, errorMessage string) error
}

// MySQLSnapshotRepository реализация SnapshotRepository для MySQL
type MySQLSnapshotRepository struct {
	db *sql.DB
}

// NewMySQLSnapshotRepository создает новый экземпляр MySQLSnapshotRepository
func NewMySQLSnapshotRepository(db *sql.DB) *MySQLSnapshotRepository {
	return &MySQLSnapshotRepository{
		db: db,
	}
}

func (r *MySQLSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot Snapshot) error {
	payload, err := processor.EncodeObservations(snapshot.Observations)
	if err != nil {
		return fmt.Errorf("ошибка кодирования снимка %s: %w", snapshot.ID, err)
	}

	query := `
	INSERT INTO dataset_snapshots (id, months, generated_at, row_count, payload)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.Months,
		snapshot.GeneratedAt.UTC(),
		len(snapshot.Observations),
		payload,
	)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении снимка %s: %w", snapshot.ID, err)
	}
	return nil
}

func (r *MySQLSnapshotRepository) GetLatestSnapshot(ctx context.Context, months int) (*Snapshot, error) {
	query := `
	SELECT id, months, generated_at, row_count, payload
	FROM dataset_snapshots
	WHERE months = ?
	ORDER BY generated_at DESC
	LIMIT 1
	`

	return scanSnapshot(r.db.QueryRowContext(ctx, query, months))
}

// rowScanner - строка результата запроса (*sql.Row)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSnapshot читает снимок из строки результата.
// Отсутствие строк не является ошибкой: возвращается nil, nil.
func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snapshot Snapshot
	var payload []byte
	err := row.Scan(
		&snapshot.ID,
		&snapshot.Months,
		&snapshot.GeneratedAt,
		&snapshot.RowCount,
		&payload,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении последнего снимка: %w", err)
	}

	snapshot.Observations, err = processor.DecodeObservations(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования снимка %s: %w", snapshot.ID, err)
	}
	if len(snapshot.Observations) != snapshot.RowCount {
		return nil, fmt.Errorf("%w: снимок %s, ожидалось %d строк, получено %d",
			ErrCorruptSnapshot, snapshot.ID, snapshot.RowCount, len(snapshot.Observations))
	}
	return &snapshot, nil
}

func (r *MySQLSnapshotRepository) DeleteSnapshotsBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM dataset_snapshots WHERE generated_at < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("ошибка при удалении устаревших снимков: %w", err)
	}
	return result.RowsAffected()
}

func (r *MySQLSnapshotRepository) CreateRunEntry(ctx context.Context, startTime time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, createRunEntryQuery, startTime.UTC(), RunStatusInProgress)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании записи о запуске: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении ID созданной записи: %w", err)
	}
	return id, nil
}

func (r *MySQLSnapshotRepository) UpdateRunSuccess(ctx context.Context, id int64, endTime time.Time, snapshotID string, rowsSaved int, pruned int64) error {
	if _, err := r.db.ExecContext(ctx, updateRunSuccessQuery, endTime.UTC(), RunStatusSuccess, snapshotID, rowsSaved, pruned, id); err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске: %w", err)
	}
	return nil
}

func (r *MySQLSnapshotRepository) UpdateRunFailure(ctx context.Context, id int64, endTime time.Time, errorMessage string) error {
	if _, err := r.db.ExecContext(ctx, updateRunFailureQuery, endTime.UTC(), RunStatusFailed, errorMessage, id); err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске: %w", err)
	}
	return nil
}
