package sort_experiment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/xrash/smetrics"

	"nickandperla.net/sort_experiment/sorts"
)

var ErrUnknownAlgorithm = errors.New("unknown sorting algorithm")

var registry = map[string]sorts.SortFunc{
	"insertion": sorts.InsertionSort,
	"merge":     sorts.MergeSort,
}

// Algorithms lists the registered algorithm names, sorted.
func Algorithms() []string {
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}

// LookupAlgorithm resolves a name case-insensitively. An unknown name yields
// ErrUnknownAlgorithm with the closest registered name as a suggestion.
func LookupAlgorithm(name string) (sorts.SortFunc, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if fn, ok := registry[key]; ok {
		return fn, nil
	}
	if suggestion := closestAlgorithm(key); suggestion != "" {
		return nil, fmt.Errorf("%w [%s], did you mean [%s]?", ErrUnknownAlgorithm, name, suggestion)
	}
	return nil, fmt.Errorf("%w [%s], known: %s", ErrUnknownAlgorithm, name, strings.Join(Algorithms(), ", "))
}

// closestAlgorithm returns the registered name within edit distance 3 of
// name, or "" if none is that close.
func closestAlgorithm(name string) string {
	best, bestDist := "", 4
	for _, candidate := range Algorithms() {
		if d := smetrics.WagnerFischer(name, candidate, 1, 1, 2); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
