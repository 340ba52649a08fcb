package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/secondary/internal/adapters/dataset"
	"github.com/okian/secondary/internal/adapters/repository"
	app "github.com/okian/secondary/internal/app"
	"github.com/okian/secondary/internal/config"
	"github.com/okian/secondary/internal/domain/evaluation"
	"github.com/okian/secondary/pkg/logger"
)

// env is the state shared by every subcommand once the root has loaded
// configuration and logging.
type env struct {
	configPath string
	cfg        *config.Config
	log        logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "secondary",
		Short:         "Defensive back prospect rankings",
		Long:          "Score cornerback and safety prospects on athletic, college and NFL pillars and serve the rankings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", os.Getenv(config.EnvConfigPath), "path to YAML config file")

	root.AddCommand(
		newScoreCmd(e),
		newServeCmd(e),
		newImportCmd(e),
		newSeedCmd(e),
		newReportCmd(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := config.LoadFile(ctx, e.configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
	); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	e.cfg = cfg
	e.log = logger.Named("secondary")
	return nil
}

// open builds the service over the configured sqlite file. The caller
// closes the returned store.
func (e *env) open(ctx context.Context) (*app.Service, *dataset.Store, error) {
	settings, err := e.cfg.Engine()
	if err != nil {
		return nil, nil, err
	}
	ev, err := evaluation.New(settings, evaluation.WithLogger(e.log.Named("evaluation")))
	if err != nil {
		return nil, nil, err
	}
	store, err := dataset.Open(e.cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	svc := app.New(store, ev,
		app.WithLogger(e.log.Named("service")),
		app.WithDatasets(e.cfg.InputDataset, e.cfg.OutputDataset),
		app.WithRepository(repository.NewSnapshotStore(repository.WithMaxLimit(e.cfg.MaxRankingLimit))),
	)
	return svc, store, nil
}
