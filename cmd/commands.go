package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/secondary/internal/adapters/http/api"
	"github.com/okian/secondary/internal/adapters/http/swagger"
	app "github.com/okian/secondary/internal/app"
	"github.com/okian/secondary/internal/report"
	"github.com/okian/secondary/internal/seed"
	"github.com/okian/secondary/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newScoreCmd(e *env) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Evaluate the input dataset and store the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, store, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := svc.Score(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "run %s  policy %s  players %d\n\n", run.ID, run.Policy, run.Players)
			if quiet {
				return nil
			}
			return report.PrintRankings(w, run.Results, run.Labels)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the run summary line")
	return cmd
}

func newReportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print rankings and category summaries for the latest run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, store, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := svc.LoadLatest(ctx)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), run)
		},
	}
}

func printReport(w io.Writer, run app.Run) error {
	fmt.Fprintf(w, "run %s  policy %s  players %d  created %s\n\n",
		run.ID, run.Policy, len(run.Results), run.CreatedAt.UTC().Format(time.RFC3339))
	if err := report.PrintRankings(w, run.Results, run.Labels); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := report.PrintCategorySummary(w, run.Results, run.Labels); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return report.PrintTopPerCategory(w, run.Results, run.Labels)
}

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Load prospects from a CSV file into the input dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			svc, store, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := svc.Import(ctx, f)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d players into %s\n", n, e.cfg.InputDataset)
			return nil
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	cfg := seed.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a synthetic prospect class into the input dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, store, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := svc.Seed(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d players into %s\n", n, e.cfg.InputDataset)
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.Players, "players", cfg.Players, "number of players to generate")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().IntVar(&cfg.Season, "season", cfg.Season, "first draft season")
	cmd.Flags().IntVar(&cfg.Seasons, "seasons", cfg.Seasons, "number of draft seasons")
	return cmd
}

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest rankings over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, store, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			// An empty database still serves /healthz and /metrics.
			if _, err := svc.LoadOrScore(ctx); err != nil {
				if !errors.Is(err, app.ErrNoPlayers) {
					return err
				}
				e.log.Warn(ctx, "no players to serve yet", logger.String("dataset", e.cfg.InputDataset))
			}

			mux := http.NewServeMux()
			swagger.Register(mux)
			api.NewServer(svc.Repository(), e.cfg.MaxRankingLimit).Register(mux)
			srv := &http.Server{
				Addr:              e.cfg.Addr,
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}
			return serve(ctx, srv, e.log)
		},
	}
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%w: %w", api.ErrServe, err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}
