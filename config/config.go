package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DashboardConfig содержит конфигурацию сервиса дашборда
type DashboardConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig содержит настройки HTTP-сервера
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
	StaticDir       string        `mapstructure:"static_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatasetConfig содержит параметры генерации синтетических данных
type DatasetConfig struct {
	// Количество месяцев в наборе данных
	Months int `mapstructure:"months"`

	// Seed генератора (0 - случайный seed при каждом запуске)
	Seed uint64 `mapstructure:"seed"`

	// Фильтры по умолчанию для дашборда
	DefaultMonthsBack int      `mapstructure:"default_months_back"`
	DefaultRegion     string   `mapstructure:"default_region"`
	DefaultRoles      []string `mapstructure:"default_roles"`
}

// StorageConfig содержит настройки хранилища снимков
type StorageConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Database DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// SnapshotConfig содержит настройки периодического сохранения снимков
type SnapshotConfig struct {
	RunInterval time.Duration `mapstructure:"run_interval"`
	Retention   time.Duration `mapstructure:"retention"`
}

// ForecastConfig содержит параметры прогноза
type ForecastConfig struct {
	Horizon         int     `mapstructure:"horizon"`
	ConfidenceLevel float64 `mapstructure:"confidence_level"`
}

// LoggingConfig содержит настройки логирования
type LoggingConfig struct {
	EnableDetailedLogging bool   `mapstructure:"enable_detailed_logging"`
	Dir                   string `mapstructure:"dir"`
}

// Значения конфигурации по умолчанию
var (
	DefaultDatabaseConfig = DatabaseConfig{
		Driver: "mysql",
		Host:   "localhost",
		Port:   3306,
		User:   "root",
		DBName: "talent_pulse",
	}

	DefaultDashboardConfig = DashboardConfig{
		Server: ServerConfig{
			Address:         ":8080",
			AllowedOrigin:   "*",
			StaticDir:       "public",
			ShutdownTimeout: 10 * time.Second,
		},
		Dataset: DatasetConfig{
			Months:            24,
			DefaultMonthsBack: 6,
			DefaultRegion:     "ALL",
			DefaultRoles:      []string{"AI Engineer", "ML Engineer"},
		},
		Storage: StorageConfig{
			Enabled:  false,
			Database: DefaultDatabaseConfig,
		},
		Snapshot: SnapshotConfig{
			RunInterval: 1 * time.Hour,
			Retention:   30 * 24 * time.Hour,
		},
		Forecast: ForecastConfig{
			Horizon:         3,
			ConfidenceLevel: 0.95,
		},
	}
)

// GetConfig возвращает конфигурацию по умолчанию
func GetConfig() DashboardConfig {
	config := DefaultDashboardConfig
	config.Dataset.DefaultRoles = append([]string(nil), DefaultDashboardConfig.Dataset.DefaultRoles...)
	return config
}

// flagBindings связывает ключи конфигурации с флагами командной строки
var flagBindings = map[string]string{
	"server.address":                  "addr",
	"dataset.months":                  "months",
	"dataset.seed":                    "seed",
	"storage.enabled":                 "storage",
	"logging.enable_detailed_logging": "verbose",
}

// Load читает конфигурацию: значения по умолчанию, затем файл, переменные окружения PULSE_* и флаги.
// configFile может быть пустым - тогда ищется pulse.yaml в текущем каталоге и ./config.
func Load(configFile string, flags *pflag.FlagSet) (DashboardConfig, error) {
	v := viper.New()
	setDefaults(v, GetConfig())

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pulse")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return DashboardConfig{}, fmt.Errorf("ошибка привязки флага %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return DashboardConfig{}, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	var config DashboardConfig
	if err := v.Unmarshal(&config); err != nil {
		return DashboardConfig{}, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DashboardConfig{}, err
	}
	return config, nil
}

// Validate проверяет согласованность конфигурации
func (c DashboardConfig) Validate() error {
	if c.Dataset.Months < 1 {
		return fmt.Errorf("dataset.months должно быть >= 1, получено: %d", c.Dataset.Months)
	}
	if c.Storage.Enabled && c.Snapshot.RunInterval <= 0 {
		return fmt.Errorf("snapshot.run_interval должен быть положительным, получено: %v", c.Snapshot.RunInterval)
	}
	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("forecast.horizon должен быть >= 1, получено: %d", c.Forecast.Horizon)
	}
	return nil
}

func setDefaults(v *viper.Viper, c DashboardConfig) {
	v.SetDefault("server.address", c.Server.Address)
	v.SetDefault("server.allowed_origin", c.Server.AllowedOrigin)
	v.SetDefault("server.static_dir", c.Server.StaticDir)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)

	v.SetDefault("dataset.months", c.Dataset.Months)
	v.SetDefault("dataset.seed", c.Dataset.Seed)
	v.SetDefault("dataset.default_months_back", c.Dataset.DefaultMonthsBack)
	v.SetDefault("dataset.default_region", c.Dataset.DefaultRegion)
	v.SetDefault("dataset.default_roles", c.Dataset.DefaultRoles)

	v.SetDefault("storage.enabled", c.Storage.Enabled)
	v.SetDefault("storage.database.driver", c.Storage.Database.Driver)
	v.SetDefault("storage.database.host", c.Storage.Database.Host)
	v.SetDefault("storage.database.port", c.Storage.Database.Port)
	v.SetDefault("storage.database.user", c.Storage.Database.User)
	v.SetDefault("storage.database.password", c.Storage.Database.Password)
	v.SetDefault("storage.database.dbname", c.Storage.Database.DBName)

	v.SetDefault("snapshot.run_interval", c.Snapshot.RunInterval)
	v.SetDefault("snapshot.retention", c.Snapshot.Retention)

	v.SetDefault("forecast.horizon", c.Forecast.Horizon)
	v.SetDefault("forecast.confidence_level", c.Forecast.ConfidenceLevel)

	v.SetDefault("logging.enable_detailed_logging", c.Logging.EnableDetailedLogging)
	v.SetDefault("logging.dir", c.Logging.Dir)
}
