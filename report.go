package sort_experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

type Layout string

const (
	LayoutAuto    Layout = "auto"
	LayoutClassic Layout = "classic"
	LayoutAligned Layout = "aligned"
	LayoutCSV     Layout = "csv"
)

const (
	headerSize      = "Array Size"
	headerInsertion = "Insertion Sort (ms)"
	headerMerge     = "Merge Sort (ms)"

	boldOn  = "\x1b[1m"
	boldOff = "\x1b[0m"
)

type ReportOptions struct {
	Layout Layout
	Color  bool
	// Footer adds the crossover line below table layouts.
	Footer bool
}

func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LayoutAuto, nil
	case LayoutAuto, LayoutClassic, LayoutAligned, LayoutCSV:
		return l, nil
	default:
		return "", fmt.Errorf("unknown report layout [%s]", s)
	}
}

// ResolveLayout turns LayoutAuto into a concrete layout: the classic table
// for terminals, CSV for pipes and files.
func ResolveLayout(l Layout, terminal bool) Layout {
	if l != LayoutAuto && l != "" {
		return l
	}
	if terminal {
		return LayoutClassic
	}
	return LayoutCSV
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteTable renders one row per result, in the order given.
func WriteTable(w io.Writer, results []TrialResult, opts *ReportOptions) error {
	if opts == nil {
		opts = &ReportOptions{Layout: LayoutClassic}
	}

	var err error
	switch ResolveLayout(opts.Layout, IsTerminal(w)) {
	case LayoutCSV:
		return writeCSV(w, results)
	case LayoutAligned:
		err = writeAligned(w, results, opts.Color)
	case LayoutClassic:
		err = writeClassic(w, results, opts.Color)
	default:
		return fmt.Errorf("unknown report layout [%s]", opts.Layout)
	}
	if err != nil || !opts.Footer {
		return err
	}
	return writeFooter(w, results)
}

func writeClassic(w io.Writer, results []TrialResult, color bool) error {
	header := headerSize + " | " + headerInsertion + " | " + headerMerge
	if _, err := fmt.Fprintln(w, emphasize(header, color)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "-----------|-------------------|----------------"); err != nil {
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%9d | %17.3f | %14.3f\n", r.Size, r.InsertionMeanMs, r.MergeMeanMs); err != nil {
			return err
		}
	}
	return nil
}

func writeAligned(w io.Writer, results []TrialResult, color bool) error {
	headers := []string{headerSize, headerInsertion, headerMerge}
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			strconv.Itoa(r.Size),
			strconv.FormatFloat(r.InsertionMeanMs, 'f', 3, 64),
			strconv.FormatFloat(r.MergeMeanMs, 'f', 3, 64),
		}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = runewidth.FillRight(h, widths[i])
	}
	if _, err := fmt.Fprintln(w, emphasize(strings.Join(cells, " | "), color)); err != nil {
		return err
	}

	for i := range widths {
		cells[i] = strings.Repeat("-", widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.Join(cells, "-|-")); err != nil {
		return err
	}

	for _, row := range rows {
		for i, cell := range row {
			cells[i] = runewidth.FillLeft(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, " | ")); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(w io.Writer, results []TrialResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"size", "insertion_ms", "merge_ms"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			strconv.Itoa(r.Size),
			strconv.FormatFloat(r.InsertionMeanMs, 'f', 3, 64),
			strconv.FormatFloat(r.MergeMeanMs, 'f', 3, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeFooter(w io.Writer, results []TrialResult) error {
	if len(results) == 0 {
		return nil
	}
	if size, ok := Crossover(results); ok {
		_, err := fmt.Fprintf(w, "\nMerge sort is faster from size %d upward\n", size)
		return err
	}
	_, err := fmt.Fprintln(w, "\nInsertion sort was faster at the largest size tested")
	return err
}

func emphasize(s string, color bool) string {
	if !color {
		return s
	}
	return boldOn + s + boldOff
}
