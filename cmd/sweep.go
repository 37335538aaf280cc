package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargesim/app"
	"github.com/kilianp07/chargesim/core/sweep"
	"github.com/kilianp07/chargesim/infra/logger"
	"github.com/kilianp07/chargesim/internal/eventbus"
	"github.com/kilianp07/chargesim/pkg/export"
)

var sweepFlags struct {
	maxChargers int
	power       float64
	parallel    int
	format      string
	out         string
	quiet       bool
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compute the concurrency factor for 1..N identical chargers",
	RunE:  runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.IntVar(&sweepFlags.maxChargers, "max-chargers", 0, "largest fleet size (overrides sweep.max_chargers)")
	f.Float64Var(&sweepFlags.power, "power", 0, "rated power of each charger in kW (overrides sweep.power_kw)")
	f.IntVar(&sweepFlags.parallel, "parallel", 0, "concurrent simulations (overrides sweep.parallel)")
	f.StringVar(&sweepFlags.format, "format", "", "output format: json, csv or yaml")
	f.StringVarP(&sweepFlags.out, "out", "o", "", "output file, stdout when empty")
	f.BoolVarP(&sweepFlags.quiet, "quiet", "q", false, "do not report progress on stderr")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()
	if sweepFlags.maxChargers > 0 {
		cfg.Sweep.MaxChargers = sweepFlags.maxChargers
	}
	if sweepFlags.power > 0 {
		cfg.Sweep.PowerKw = sweepFlags.power
	}
	if sweepFlags.parallel > 0 {
		cfg.Sweep.Parallel = sweepFlags.parallel
	}
	if sweepFlags.format != "" {
		cfg.Output.Format = sweepFlags.format
	}
	if sweepFlags.out != "" {
		cfg.Output.Path = sweepFlags.out
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

	bus := eventbus.New[sweep.Progress]()
	progressDone := make(chan struct{})
	sub := bus.SubscribeBuffered(cfg.Sweep.MaxChargers)
	go func() {
		defer close(progressDone)
		for p := range sub {
			if !sweepFlags.quiet {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %d chargers: factor %.3f\n",
					p.Done, p.Total, p.Point.Chargers, p.Point.ConcurrencyFactor)
			}
		}
	}()

	points, err := svc.Sweep(ctx, bus)
	bus.Close()
	<-progressDone
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, cfg.Output.Path)
	if err != nil {
		return err
	}
	if err := export.WriteSweep(w, format, points); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}
