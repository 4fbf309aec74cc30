package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	colorable "github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	se "nickandperla.net/sort_experiment"
)

const defaultConfigPath = "./config.toml"

// app carries what every subcommand needs: where to write, whether that is a
// terminal, and the tool config once loaded.
type app struct {
	out      io.Writer
	errOut   io.Writer
	terminal bool

	configPath string
	verbose    bool
	config     *se.ToolConfig
}

func main() {
	a := &app{
		out:      colorable.NewColorableStdout(),
		errOut:   colorable.NewColorableStderr(),
		terminal: se.IsTerminal(os.Stdout),
	}

	if err := newRootCommand(a).Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "sortexp",
		Short:         "Compare insertion sort and merge sort over a power-of-two size sweep",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.setupLogging()
			return a.loadConfig(cmd.Flags().Changed("config"))
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "The config file for sortexp (TOML, or YAML by extension)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log per-size progress")

	root.AddCommand(
		newRunCommand(a),
		newHistoryCommand(a),
		newShowCommand(a),
		newPruneCommand(a),
		newSortCommand(a),
		newAlgorithmsCommand(a),
	)
	return root
}

func (a *app) setupLogging() {
	log.SetOutput(a.errOut)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
		DisableColors:   !a.terminal,
	})
	if a.verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig reads the config file. A missing file at the default path is
// not an error: the built-in defaults apply.
func (a *app) loadConfig(explicit bool) error {
	config, err := se.LoadToolConfig(a.configPath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			log.Debugf("No config at %s, using defaults", a.configPath)
			a.config = se.DefaultToolConfig()
			return nil
		}
		return err
	}
	a.config = config
	return nil
}

func (a *app) openPersistence() (*se.Persistence, error) {
	persist, err := se.NewPersistence(&a.config.Persistence)
	if err != nil {
		return nil, fmt.Errorf("failed to create or initialize persistence: %w", err)
	}
	return persist, nil
}
