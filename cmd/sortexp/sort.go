package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	se "nickandperla.net/sort_experiment"
	"nickandperla.net/sort_experiment/sorts"
)

func newSortCommand(a *app) *cobra.Command {
	var algo string

	cmd := &cobra.Command{
		Use:   "sort [ints...]",
		Short: "Sort integers from the arguments, or whitespace separated on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			sortFn, err := se.LookupAlgorithm(algo)
			if err != nil {
				return err
			}

			var seq sorts.Sequence
			if len(args) > 0 {
				seq, err = parseSequence(args)
			} else {
				seq, err = readSequence(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			sortFn(seq)

			parts := make([]string, len(seq))
			for i, v := range seq {
				parts[i] = strconv.FormatInt(v, 10)
			}
			fmt.Fprintln(a.out, strings.Join(parts, " "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&algo, "algo", "a", "merge", "Algorithm to sort with (see 'sortexp algorithms')")
	return cmd
}

func newAlgorithmsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the sorting algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range se.Algorithms() {
				fmt.Fprintln(a.out, name)
			}
		},
	}
}

func parseSequence(fields []string) (sorts.Sequence, error) {
	seq := make(sorts.Sequence, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer [%s]: %w", f, err)
		}
		seq = append(seq, v)
	}
	return seq, nil
}

func readSequence(r io.Reader) (sorts.Sequence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var fields []string
	for scanner.Scan() {
		fields = append(fields, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return parseSequence(fields)
}
