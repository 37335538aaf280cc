package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/chargesim/app"
	"github.com/kilianp07/chargesim/infra/logger"
	"github.com/kilianp07/chargesim/pkg/export"
)

var simulateFlags struct {
	seed   int64
	days   int
	format string
	out    string
	serve  bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate the configured charging site over the run horizon",
	RunE:  runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.Int64Var(&simulateFlags.seed, "seed", 0, "random seed (overrides run.seed)")
	f.IntVar(&simulateFlags.days, "days", 0, "horizon in days (overrides run.horizon_days)")
	f.StringVar(&simulateFlags.format, "format", "", "output format: json, csv or yaml")
	f.StringVarP(&simulateFlags.out, "out", "o", "", "output file, stdout when empty")
	f.BoolVar(&simulateFlags.serve, "serve", false, "keep serving Prometheus metrics until interrupted")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()
	if cmd.Flags().Changed("seed") {
		cfg.Run.Seed = simulateFlags.seed
	}
	if simulateFlags.days > 0 {
		cfg.Run.HorizonDays = simulateFlags.days
	}
	if simulateFlags.format != "" {
		cfg.Output.Format = simulateFlags.format
	}
	if simulateFlags.out != "" {
		cfg.Output.Path = simulateFlags.out
	}
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	startPromServer(ctx, cfg.Metrics.PrometheusAddr)

	rep, err := svc.Simulate(ctx)
	if err != nil {
		return err
	}
	w, closeOut, err := openOutput(cmd, cfg.Output.Path)
	if err != nil {
		return err
	}
	if err := export.WriteRun(w, format, rep); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	if simulateFlags.serve && cfg.Metrics.PrometheusAddr != "" {
		<-ctx.Done()
	}
	return nil
}
