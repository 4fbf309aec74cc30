package sort_experiment

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"nickandperla.net/sort_experiment/sorts"
)

// Runner sweeps input sizes 2^0..2^MaxExponent and times insertion sort
// against merge sort on identical input. Everything runs on the calling
// goroutine; the two sorts of a trial are timed one after the other.
type Runner struct {
	Config    *ExperimentConfig
	Generator *Generator
	Insertion sorts.SortFunc
	Merge     sorts.SortFunc

	// OnResult, when set, is called as soon as a size has been aggregated.
	OnResult func(TrialResult)

	now func() time.Time
}

func NewRunner(config *ExperimentConfig, gen *Generator) *Runner {
	return &Runner{
		Config:    config,
		Generator: gen,
		Insertion: sorts.InsertionSort,
		Merge:     sorts.MergeSort,
		now:       time.Now,
	}
}

// Run returns one TrialResult per exponent in ascending size order. It stops
// at the first trial where the algorithms disagree, returning the results
// gathered so far and a *ConsistencyError. Cancelling ctx stops the sweep
// between trials.
func (r *Runner) Run(ctx context.Context) ([]TrialResult, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}

	results := make([]TrialResult, 0, r.Config.MaxExponent+1)
	for exp := uint(0); exp <= r.Config.MaxExponent; exp++ {
		result, err := r.runSize(ctx, 1<<exp)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		log.WithFields(log.Fields{
			"size":         result.Size,
			"insertion_ms": result.InsertionMeanMs,
			"merge_ms":     result.MergeMeanMs,
		}).Debug("Size complete")

		if r.OnResult != nil {
			r.OnResult(result)
		}
	}
	return results, nil
}

func (r *Runner) runSize(ctx context.Context, size int) (TrialResult, error) {
	var totalInsertion, totalMerge time.Duration
	trials := r.Config.TrialsPerSize

	for trial := uint(0); trial < trials; trial++ {
		if err := ctx.Err(); err != nil {
			return TrialResult{}, err
		}

		original := r.Generator.Generate(size, r.Config.MinValue, r.Config.MaxValue)

		insertion := sorts.Clone(original)
		totalInsertion += r.timed(r.Insertion, insertion)

		merge := sorts.Clone(original)
		totalMerge += r.timed(r.Merge, merge)

		if err := CrossValidate(size, trial, insertion, merge); err != nil {
			log.WithFields(log.Fields{"size": size, "trial": trial}).Error("Cross validation failed")
			return TrialResult{}, err
		}

		if DEBUG {
			log.Printf("size=%d trial=%d input=%v sorted=%v", size, trial, original, merge)
		}
	}

	return TrialResult{
		Size:            size,
		InsertionMeanMs: meanMillis(totalInsertion, trials),
		MergeMeanMs:     meanMillis(totalMerge, trials),
	}, nil
}

func (r *Runner) timed(sortFn sorts.SortFunc, seq sorts.Sequence) time.Duration {
	start := r.now()
	sortFn(seq)
	elapsed := r.now().Sub(start)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// meanMillis divides in whole nanoseconds first, then converts.
func meanMillis(total time.Duration, trials uint) float64 {
	mean := int64(total) / int64(trials)
	return float64(mean) / float64(time.Millisecond)
}
