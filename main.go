// main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LilVoxy/ai_talent_pulse/config"
	"github.com/LilVoxy/ai_talent_pulse/dashboard"
	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/forecast"
	"github.com/LilVoxy/ai_talent_pulse/pipeline"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

var configFile string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pulse",
		Short:         "Дашборд синтетического рынка труда в сфере ИИ",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "путь к файлу конфигурации (по умолчанию ./pulse.yaml)")
	flags.String("addr", config.DefaultDashboardConfig.Server.Address, "адрес HTTP-сервера")
	flags.Int("months", config.DefaultDashboardConfig.Dataset.Months, "количество месяцев в наборе данных")
	flags.Uint64("seed", 0, "seed генератора (0 - случайный)")
	flags.Bool("storage", false, "сохранять снимки набора данных в MySQL")
	flags.BoolP("verbose", "v", false, "подробное логирование")

	root.AddCommand(newServeCommand(), newSnapshotCommand(), newReportCommand())
	return root
}

// app содержит общие компоненты всех команд
type app struct {
	config  config.DashboardConfig
	logger  *utils.Logger
	cache   *dataset.Cache
	service *dashboard.Service
}

// newApp загружает конфигурацию и собирает кэш набора данных и сервис дашборда
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := utils.NewLogger(cfg.Logging.EnableDetailedLogging, cfg.Logging.Dir)
	if err != nil {
		return nil, err
	}

	var opts []dataset.GeneratorOption
	if cfg.Dataset.Seed != 0 {
		opts = append(opts, dataset.WithSeed(cfg.Dataset.Seed))
	}
	cache := dataset.NewCache(dataset.NewGenerator(opts...), logger)

	defaults, err := dashboard.DefaultsFromConfig(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	service := dashboard.NewService(cache, pipeline.New(), dashboard.Options{
		Months:   cfg.Dataset.Months,
		Defaults: defaults,
		Forecast: forecast.Config{
			Horizon:         cfg.Forecast.Horizon,
			ConfidenceLevel: cfg.Forecast.ConfidenceLevel,
		},
	})

	return &app{
		config:  cfg,
		logger:  logger,
		cache:   cache,
		service: service,
	}, nil
}
