package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newPruneCommand(a *app) *cobra.Command {
	var keep int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			persist, err := a.openPersistence()
			if err != nil {
				return err
			}
			defer persist.Shutdown()

			if dryRun {
				log.Infof("DRY RUN: previewing prune keeping %d runs", keep)
			} else {
				log.Infof("Pruning runs, keeping the newest %d", keep)
			}

			result, err := persist.PruneRuns(keep, dryRun)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Prune %s:\n", map[bool]string{true: "(dry run)", false: "complete"}[dryRun])
			fmt.Fprintf(a.out, "  Total runs:        %d\n", result.TotalRuns)
			fmt.Fprintf(a.out, "  Runs kept:         %d\n", result.KeptRuns)
			fmt.Fprintf(a.out, "  Runs deleted:      %d\n", result.DeletedRuns)
			fmt.Fprintf(a.out, "  Results deleted:   %d\n", result.DeletedResults)
			return nil
		},
	}

	cmd.Flags().IntVarP(&keep, "keep", "k", 10, "Number of newest runs to keep")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview what would be deleted without actually deleting")
	return cmd
}
