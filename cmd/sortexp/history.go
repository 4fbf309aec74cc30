package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	se "nickandperla.net/sort_experiment"
)

func newHistoryCommand(a *app) *cobra.Command {
	var since string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded experiment runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := se.ParseSince(since, time.Now())
			if err != nil {
				return err
			}

			persist, err := a.openPersistence()
			if err != nil {
				return err
			}
			defer persist.Shutdown()

			summaries, err := persist.QueryRunSummaries(from, limit)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(a.out, "No runs recorded")
				return nil
			}

			fmt.Fprintf(a.out, "%5s  %-19s  %-12s  %7s  %6s  %9s  %14s  %10s\n",
				"Run", "Created", "Outcome", "Exp", "Trials", "Max Size", "Insertion (ms)", "Merge (ms)")
			for _, s := range summaries {
				fmt.Fprintf(a.out, "%5d  %-19s  %-12s  %7d  %6d  %9d  %14.3f  %10.3f\n",
					s.RunID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.Outcome,
					s.MaxExponent, s.TrialsPerSize, s.MaxSize, s.AvgInsertionMs, s.AvgMergeMs)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "all", "Window: all, today, week, month or a duration like 48h")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs listed (0 = no limit)")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	var layout string

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print the stored table of one run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := se.ParseLayout(layout)
			if err != nil {
				return err
			}

			persist, err := a.openPersistence()
			if err != nil {
				return err
			}
			defer persist.Shutdown()

			var id uint
			if len(args) == 1 {
				parsed, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid run id [%s]: %w", args[0], err)
				}
				id = uint(parsed)
			} else {
				latest, err := persist.ListRuns(time.Time{}, 1)
				if err != nil {
					return err
				}
				if len(latest) == 0 {
					return fmt.Errorf("%w: no runs recorded", se.ErrRunNotFound)
				}
				id = latest[0].ID
			}

			run, err := persist.LoadRun(id)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Run %d (%s) max_exponent=%d trials_per_size=%d range=[%d, %d] seed=%d\n",
				run.ID, run.Outcome, run.Config.MaxExponent, run.Config.TrialsPerSize,
				run.Config.MinValue, run.Config.MinValue+run.Config.MaxValue, run.Config.Seed)
			if run.Error != nil {
				fmt.Fprintf(a.out, "Error: %s\n", *run.Error)
			}
			l = se.ResolveLayout(l, a.terminal)
			return se.WriteTable(a.out, run.TrialResults(), &se.ReportOptions{
				Layout: l,
				Footer: l != se.LayoutCSV,
			})
		},
	}

	cmd.Flags().StringVarP(&layout, "layout", "l", "", "Report layout: auto, classic, aligned or csv")
	return cmd
}
