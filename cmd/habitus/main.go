package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/habitus/internal/cli"
	"github.com/alexanderramin/habitus/internal/config"
	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/logger"
	"github.com/alexanderramin/habitus/internal/repository"
	"github.com/alexanderramin/habitus/internal/scheduler"
	"github.com/alexanderramin/habitus/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.LogDir}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	activityRepo := repository.NewSQLiteActivityRepo(database)
	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)
	logRepo := repository.NewSQLiteLogRepo(database)
	vacationRepo := repository.NewSQLiteVacationRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)
	obs := service.NewLogUseCaseObserver(logger.Logger)

	// Wire services
	opts := scheduler.Options{CarryForwardLookbackDays: cfg.CarryForwardDays}
	evalSvc := service.NewEvaluationService(activityRepo, snapshotRepo, logRepo, vacationRepo, opts, cfg.Now)

	app := &cli.App{
		Activities: service.NewActivityService(activityRepo, snapshotRepo, uow, cfg.Now, obs),
		Logs:       service.NewLogService(logRepo, uow, cfg.Now, obs),
		Vacations:  service.NewVacationService(vacationRepo, uow),
		Evaluation: evalSvc,
		Exchange:   service.NewExchangeService(activityRepo, snapshotRepo, logRepo, vacationRepo, uow, cfg.Now, obs),
		Digests:    service.NewDigestService(evalSvc, cfg.Now),

		Now:        cfg.Now,
		DigestCron: cfg.DigestCron,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	logger.Debug("starting", "db", cfg.DBPath, "tz", cfg.Location.String())

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
