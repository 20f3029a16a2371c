// Package main provides the entry point for the value detection daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/database"
	"github.com/Xavi146570/football-value-detector/internal/datasource"
	"github.com/Xavi146570/football-value-detector/internal/engine"
	"github.com/Xavi146570/football-value-detector/internal/health"
	"github.com/Xavi146570/football-value-detector/internal/logger"
	"github.com/Xavi146570/football-value-detector/internal/metrics"
	"github.com/Xavi146570/football-value-detector/internal/notify"
	"github.com/Xavi146570/football-value-detector/internal/publish"
	"github.com/Xavi146570/football-value-detector/internal/repository"
	"github.com/Xavi146570/football-value-detector/internal/scheduler"
	"github.com/Xavi146570/football-value-detector/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(initDBCmd)
}

var rootCmd = &cobra.Command{
	Use:   "detector",
	Short: "Over 1.5 goals value detection engine",
	Long:  `Evaluates upcoming fixtures against market odds, stores value opportunities and settles them against final scores.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A local .env is optional; real deployments use the environment.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region == "" || secretName == "" {
				return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			}
			if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the detection daemon with scheduled analysis and reconciliation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis pass over the configured leagues and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(func(ctx context.Context, deps *dependencies) error {
			report, err := deps.analysis.Run(ctx)
			if err != nil {
				return err
			}
			appLog.WithFields(logrus.Fields{
				"fixtures_found":    report.FixturesFound,
				"fixtures_analyzed": report.FixturesAnalyzed,
				"accepted":          len(report.Accepted),
				"skipped":           len(report.Skipped),
				"duration":          report.Duration.String(),
			}).Info("Analysis complete")
			return nil
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Settle finished fixtures against stored picks and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(func(ctx context.Context, deps *dependencies) error {
			report, err := deps.reconciliation.Run(ctx)
			if err != nil {
				return err
			}
			appLog.WithFields(logrus.Fields{
				"checked":   report.Checked,
				"settled":   report.Settled,
				"hits":      report.Hits,
				"misses":    report.Misses,
				"cancelled": report.Cancelled,
				"pending":   report.Pending,
			}).Info("Reconciliation complete")
			return nil
		})
	},
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db.Close()

		appLog.Info("Database schema ready")
		return nil
	},
}

// dependencies holds the wired application services.
type dependencies struct {
	db             *database.DB
	analysis       *service.AnalysisService
	reconciliation *service.ReconciliationService
}

func setupDependencies(ctx context.Context) (*dependencies, error) {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	provider := datasource.NewAPIFootballClient(&cfg.Provider, appLog)
	collector := datasource.NewCollector(provider, &cfg.Provider, appLog)

	eng, err := engine.New(cfg.Engine)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Telegram.Enabled {
		tg := notify.NewTelegramNotifier(&cfg.Telegram, appLog)
		if err := tg.Ping(ctx); err != nil {
			appLog.WithError(err).Warn("Telegram bot unreachable; alerts may fail")
		}
		notifier = tg
	}

	var publisher publish.Publisher = publish.NopPublisher{}
	if cfg.Redis.Enabled {
		rp, err := publish.NewRedisPublisher(ctx, &cfg.Redis, appLog)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		publisher = rp
	}

	analysisSvc := service.NewAnalysisService(cfg, provider, collector, eng, repos, notifier, publisher, appLog)
	reconSvc := service.NewReconciliationService(cfg, provider, repos, appLog)

	return &dependencies{
		db:             db,
		analysis:       analysisSvc,
		reconciliation: reconSvc,
	}, nil
}

func runOnce(job func(context.Context, *dependencies) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics.InitRegistry()

	deps, err := setupDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.db.Close()

	return job(ctx, deps)
}

func runDaemon() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.InitRegistry()

	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"build_date":  BuildDate,
		"environment": cfg.App.Environment,
		"leagues":     cfg.Provider.Leagues,
	}).Info("Value detector starting")

	deps, err := setupDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.db.Close()

	appLog.Info("Database connection established")

	sched := scheduler.New(deps.analysis, deps.reconciliation, appLog)
	if err := sched.ScheduleAll(cfg.Schedules); err != nil {
		return fmt.Errorf("failed to schedule jobs: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Logger:      appLog,
		DB:          deps.db,
	})
	if err := healthSrv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	healthSrv.SetReady(true)

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx)
	}

	appLog.WithField("next_run", sched.NextRun().Format(time.RFC3339)).Info("Scheduler running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig.String()).Info("Shutdown signal received")

	healthSrv.SetReady(false)
	sched.Stop()
	cancel()

	appLog.Info("Value detector shut down")
	return nil
}

func startMetricsServer(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
