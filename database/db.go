// database/db.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/LilVoxy/ai_talent_pulse/config"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

// InitDB подключается к базе данных снимков и создает таблицы, если их нет
func InitDB(ctx context.Context, cfg config.DatabaseConfig, logger *utils.Logger) (*sql.DB, error) {
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Error("❌ Ошибка подключения к БД: %v", err)
		return nil, err
	}
	logger.Info("✅ Успешное подключение к базе данных %s", cfg.DBName)

	if err := createTablesIfNotExist(ctx, db); err != nil {
		db.Close()
		logger.Error("❌ Ошибка создания таблиц: %v", err)
		return nil, err
	}
	return db, nil
}

// runLogTableDDL создает журнал запусков; значения ENUM совпадают с RunStatus*
var runLogTableDDL = fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS snapshot_run_log (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		start_time DATETIME(6) NOT NULL,
		end_time DATETIME(6) NULL,
		status ENUM('%[1]s', '%[2]s', '%[3]s') NOT NULL DEFAULT '%[3]s',
		snapshot_id CHAR(36) NULL,
		rows_saved INT DEFAULT 0,
		snapshots_pruned INT DEFAULT 0,
		error_message TEXT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`, RunStatusSuccess, RunStatusFailed, RunStatusInProgress)

// Создание необходимых таблиц, если они не существуют
func createTablesIfNotExist(ctx context.Context, db *sql.DB) error {
	createSnapshotsTable := `
	CREATE TABLE IF NOT EXISTS dataset_snapshots (
		id CHAR(36) PRIMARY KEY,
		months INT NOT NULL,
		generated_at DATETIME(6) NOT NULL,
		row_count INT NOT NULL,
		payload MEDIUMBLOB NOT NULL,
		INDEX idx_months_generated (months, generated_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	if _, err := db.ExecContext(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("ошибка создания таблицы dataset_snapshots: %w", err)
	}
	if _, err := db.ExecContext(ctx, runLogTableDDL); err != nil {
		return fmt.Errorf("ошибка создания таблицы snapshot_run_log: %w", err)
	}
	return nil
}
