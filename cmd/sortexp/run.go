package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	se "nickandperla.net/sort_experiment"
)

type runOptions struct {
	maxExponent uint
	trials      uint
	minValue    int64
	maxValue    int64
	seed        int64
	layout      string
	color       bool
	noStore     bool
	profile     string
	profileDir  string
}

// experimentFlags binds the flags that override the [experiment] section.
func experimentFlags(opts *runOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet("experiment", pflag.ContinueOnError)
	fs.UintVarP(&opts.maxExponent, "max-exponent", "e", se.DefaultMaxExponent, "Largest size tested is 2^max-exponent")
	fs.UintVarP(&opts.trials, "trials", "t", se.DefaultTrialsPerSize, "Timed trials per size")
	fs.Int64Var(&opts.minValue, "min", se.DefaultMinValue, "Smallest generated value")
	fs.Int64Var(&opts.maxValue, "max", se.DefaultMaxValue, "Generated values lie in [min, min+max]")
	fs.Int64Var(&opts.seed, "seed", 0, "Random seed (0 = time based)")
	return fs
}

// applyExperimentFlags copies explicitly set flags over the config file.
func applyExperimentFlags(fs *pflag.FlagSet, opts *runOptions, config *se.ExperimentConfig) {
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		switch f.Name {
		case "max-exponent":
			config.MaxExponent = opts.maxExponent
		case "trials":
			config.TrialsPerSize = opts.trials
		case "min":
			config.MinValue = opts.minValue
		case "max":
			config.MaxValue = opts.maxValue
		case "seed":
			config.Seed = opts.seed
		}
	})
}

func newRunCommand(a *app) *cobra.Command {
	opts := &runOptions{}
	expFlags := experimentFlags(opts)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the experiment and print mean timings per size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, expFlags, opts)
		},
	}

	cmd.Flags().AddFlagSet(expFlags)
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "", "Report layout: auto, classic, aligned or csv")
	cmd.Flags().BoolVar(&opts.color, "color", false, "Bold table headers on terminals")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "Do not record the run in the database")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "Profile the run: cpu or mem")
	cmd.Flags().StringVar(&opts.profileDir, "profile-dir", ".", "Directory for profile output")
	return cmd
}

func (a *app) run(cmd *cobra.Command, expFlags *pflag.FlagSet, opts *runOptions) error {
	config := a.config.Experiment.Clone()
	applyExperimentFlags(expFlags, opts, config)
	if err := config.Validate(); err != nil {
		return err
	}

	reportOpts, err := a.reportOptions(cmd, opts)
	if err != nil {
		return err
	}

	if stop, err := startProfile(opts.profile, opts.profileDir); err != nil {
		return err
	} else if stop != nil {
		defer stop()
	}

	var persist *se.Persistence
	if a.config.Persistence.Enabled && !opts.noStore {
		if persist, err = a.openPersistence(); err != nil {
			return err
		}
		defer persist.Shutdown()
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	gen := se.NewGenerator(config.Seed)
	runner := se.NewRunner(config, gen)

	log.WithFields(log.Fields{
		"max_exponent":    config.MaxExponent,
		"trials_per_size": config.TrialsPerSize,
		"range":           fmt.Sprintf("[%d, %d]", config.MinValue, config.MinValue+config.MaxValue),
		"seed":            gen.Seed,
	}).Info("Starting experiment")

	run, runErr := se.RecordRun(ctx, persist, runner)
	if run != nil && len(run.Results) > 0 {
		if err := se.WriteTable(a.out, run.TrialResults(), reportOpts); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("experiment aborted: %w", runErr)
	}
	if persist != nil {
		log.Infof("Recorded as run %d", run.ID)
	}
	return nil
}

func (a *app) reportOptions(cmd *cobra.Command, opts *runOptions) (*se.ReportOptions, error) {
	layoutName := a.config.Report.Layout
	if cmd.Flags().Changed("layout") {
		layoutName = opts.layout
	}
	layout, err := se.ParseLayout(layoutName)
	if err != nil {
		return nil, err
	}

	color := a.config.Report.Color
	if cmd.Flags().Changed("color") {
		color = opts.color
	}

	layout = se.ResolveLayout(layout, a.terminal)
	return &se.ReportOptions{
		Layout: layout,
		Color:  color && a.terminal,
		Footer: layout != se.LayoutCSV,
	}, nil
}

func startProfile(kind, dir string) (func(), error) {
	var mode func(*profile.Profile)
	switch kind {
	case "":
		return nil, nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile kind [%s], expected cpu or mem", kind)
	}
	p := profile.Start(mode, profile.ProfilePath(dir), profile.NoShutdownHook, profile.Quiet)
	return p.Stop, nil
}
