package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/LilVoxy/ai_talent_pulse/database"
	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/pipeline"
	"github.com/LilVoxy/ai_talent_pulse/routes"
	"github.com/LilVoxy/ai_talent_pulse/scheduler"
	"github.com/LilVoxy/ai_talent_pulse/websocket"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP и WebSocket сервер дашборда",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("Запуск сервера...")

	// Создаем менеджер WebSocket
	wsManager := websocket.NewManager(a.service, a.logger)
	go wsManager.Run(ctx)

	if a.config.Storage.Enabled {
		db, runner, err := a.openStorage(ctx, wsManager)
		if err != nil {
			return err
		}
		defer db.Close()

		go func() {
			if err := runner.StartScheduler(ctx); err != nil {
				a.logger.Error("❌ Ошибка планировщика снимков: %v", err)
			}
		}()
	}

	// Набор данных сессии генерируется один раз при старте
	a.logger.Info("✅ Набор данных готов: %d наблюдений", len(a.service.Dataset()))

	router := mux.NewRouter()
	routes.SetupRoutes(router, a.service, wsManager, a.config.Server.AllowedOrigin, a.config.Server.StaticDir, a.logger)

	server := &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("✅ Сервер запущен на %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	case <-ctx.Done():
		a.logger.Warn("⚠️ Получен сигнал завершения, закрываем соединения...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("❌ Ошибка остановки сервера: %v", err)
	}

	a.logger.Info("👋 Сервер остановлен")
	return nil
}

// openStorage подключается к MySQL и восстанавливает набор данных из последнего снимка
func (a *app) openStorage(ctx context.Context, notifier scheduler.Notifier) (*sql.DB, *scheduler.SnapshotRunner, error) {
	db, err := database.InitDB(ctx, a.config.Storage.Database, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось инициализировать базу данных: %w", err)
	}

	repo := database.NewMySQLSnapshotRepository(db)
	runner := scheduler.NewSnapshotRunner(a.config.Snapshot, a.config.Dataset.Months, a.cache, repo, notifier, a.logger)

	restored, err := runner.Restore(ctx)
	if err != nil {
		a.logger.Warn("⚠️ Не удалось восстановить снимок: %v", err)
	} else if restored {
		a.logger.Info("✅ Набор данных восстановлен из последнего снимка")
	}
	return db, runner, nil
}

func newSnapshotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Сохранить набор данных сессии в MySQL и удалить устаревшие снимки",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !a.config.Storage.Enabled {
				return errors.New("хранилище отключено: укажите --storage или storage.enabled")
			}

			db, runner, err := a.openStorage(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer db.Close()

			return runner.ExecuteSnapshot(cmd.Context())
		},
	}
}

func newReportCommand() *cobra.Command {
	var (
		monthsBack   int
		region       string
		roles        []string
		withForecast bool
		withRows     bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Вывести KPI, тренд и сводку по ролям в формате JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			params := a.service.Defaults()
			if cmd.Flags().Changed("months-back") {
				params.MonthsBack = monthsBack
			}
			if cmd.Flags().Changed("region") {
				params.Region, err = pipeline.ParseRegionFilter(strings.ToUpper(region))
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("roles") {
				params.Roles = make([]dataset.Role, 0, len(roles))
				for _, s := range roles {
					role, err := dataset.ParseRole(s)
					if err != nil {
						return err
					}
					params.Roles = append(params.Roles, role)
				}
			}

			view, err := a.service.Dashboard(params)
			if err != nil {
				return err
			}

			out := map[string]interface{}{
				"params":       view.Params,
				"cutoff":       view.Cutoff,
				"kpis":         view.KPIs,
				"kpi_display":  view.KPIDisplay,
				"trend":        view.Trend,
				"role_summary": view.RoleSummary,
			}
			if withRows {
				out["filtered"] = view.Filtered
			}
			if withForecast {
				fc, err := a.service.Forecast(params, 0)
				if err != nil {
					return err
				}
				out["forecast"] = fc
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}

	cmd.Flags().IntVar(&monthsBack, "months-back", pipeline.DefaultMonthsBack, "окно в месяцах (1-24)")
	cmd.Flags().StringVar(&region, "region", string(pipeline.RegionAll), "регион: ALL, AMER, EMEA, APAC")
	cmd.Flags().StringSliceVar(&roles, "roles", nil, "роли через запятую (пустое значение - все роли)")
	cmd.Flags().BoolVar(&withForecast, "forecast", false, "добавить прогноз вакансий")
	cmd.Flags().BoolVar(&withRows, "rows", false, "добавить отфильтрованные наблюдения")
	return cmd
}
