package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"climattr/adapters/api"
	"climattr/adapters/postgres"
	"climattr/adapters/report"
	"climattr/adapters/samples"
	"climattr/adapters/stats/bootstrap"
	"climattr/adapters/stats/engine"
	"climattr/app"
	"climattr/domain/attribution"
	"climattr/internal/config"
	"climattr/internal/observability"
	"climattr/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "climattr",
		Short: "Bootstrap attribution metrics for climate extreme events",
	}

	rootCmd.AddCommand(
		newMetricsCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMetricsCmd() *cobra.Command {
	var (
		ifile       string
		ofile       string
		reportFile  string
		allColumn   string
		natColumn   string
		fitFunction string
		direction   string
		thresh      float64
		ci          int
		bootSize    int
		workers     int
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute PR/FAR/RP attribution metrics from a samples file",
		Long: `Compute the bootstrap attribution metrics table (PR, FAR, RP_ALL, RP_NAT)
from ALL/NAT sample columns in a CSV or Excel file.

Example: climattr metrics --ifile samples.csv --thresh 32.5 --fit-function gev --ofile metrics.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := attribution.ParseDirection(direction)
			if err != nil {
				return err
			}

			var source ports.SampleSource = samples.NewDataReader(ifile, allColumn, natColumn)
			all, nat, err := source.Samples()
			if err != nil {
				return err
			}
			log.Printf("[metrics] loaded %d ALL and %d NAT values from %s", len(all), len(nat), ifile)

			var resampler *bootstrap.Resampler
			if seed >= 0 {
				resampler = bootstrap.NewSeededResampler(seed)
			} else {
				resampler = bootstrap.NewResampler(nil)
			}
			service := app.NewAttributionService(engine.NewEngine(resampler), nil, nil)

			opts := engine.Options{
				Direction:   dir,
				BootstrapCI: ci,
				BootSize:    bootSize,
				Workers:     workers,
			}
			run, err := service.Run(cmd.Context(), all, nat, fitFunction, thresh, opts)
			if err != nil {
				return err
			}

			return writeOutputs(run, ofile, reportFile)
		},
	}

	cmd.Flags().StringVar(&ifile, "ifile", "", "input CSV/XLSX file with sample columns (required)")
	cmd.Flags().StringVar(&ofile, "ofile", "", "output CSV file; stdout when omitted")
	cmd.Flags().StringVar(&reportFile, "report", "", "optional HTML report output file")
	cmd.Flags().StringVar(&allColumn, "all-column", "ALL", "column holding the factual ensemble")
	cmd.Flags().StringVar(&natColumn, "nat-column", "NAT", "column holding the counterfactual ensemble")
	cmd.Flags().StringVar(&fitFunction, "fit-function", "norm", "distribution family to fit")
	cmd.Flags().StringVar(&direction, "direction", "descending", "exceedance direction: ascending or descending")
	cmd.Flags().Float64Var(&thresh, "thresh", 0, "event threshold (required)")
	cmd.Flags().IntVar(&ci, "ci", 95, "confidence level in percent")
	cmd.Flags().IntVar(&bootSize, "boot-size", 1000, "number of bootstrap trials")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel trial workers")
	cmd.Flags().Int64Var(&seed, "seed", -1, "RNG seed; negative seeds from system entropy")
	_ = cmd.MarkFlagRequired("ifile")
	_ = cmd.MarkFlagRequired("thresh")

	return cmd
}

func writeOutputs(run attribution.Run, ofile, reportFile string) error {
	writer := report.NewWriter()

	out := os.Stdout
	if ofile != "" {
		f, err := os.Create(ofile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := writer.WriteCSV(out, run.Result); err != nil {
		return err
	}

	if reportFile != "" {
		if err := os.WriteFile(reportFile, writer.HTML(run), 0o644); err != nil {
			return err
		}
		log.Printf("[metrics] wrote report to %s", reportFile)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the attribution engine over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var repo ports.MetricsRepository
			if cfg.Database.Enabled {
				db, err := sqlx.Connect("postgres", cfg.Database.URL)
				if err != nil {
					return err
				}
				defer db.Close()

				pgRepo := postgres.NewMetricsRepository(db).(*postgres.MetricsRepositoryImpl)
				if err := pgRepo.Schema(cmd.Context()); err != nil {
					return err
				}
				repo = pgRepo
				log.Printf("[serve] persistence enabled")
			}

			metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
			resampler := bootstrap.NewResampler(nil)
			service := app.NewAttributionService(engine.NewEngine(resampler), repo, metrics)
			server := api.NewServer(service, repo, api.Defaults{
				Options: engine.Options{
					Direction:   attribution.Descending,
					BootstrapCI: cfg.Engine.BootstrapCI,
					BootSize:    cfg.Engine.BootSize,
					Workers:     cfg.Engine.Workers,
				},
				FitFunction: cfg.Engine.FitFunction,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx, ":"+cfg.Server.Port)
		},
	}
	return cmd
}
