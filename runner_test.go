package sort_experiment

import (
	"context"
	"errors"
	"math"
	test "testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"nickandperla.net/sort_experiment/sorts"
)

func makeRunner(maxExponent, trials uint) *Runner {
	return NewRunner(&ExperimentConfig{
		MaxExponent:   maxExponent,
		TrialsPerSize: trials,
		MinValue:      0,
		MaxValue:      10000,
	}, NewGenerator(42))
}

// steppingClock advances by step on every reading.
func steppingClock(step time.Duration) func() time.Time {
	current := time.Unix(0, 0)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func TestRunShape(t *test.T) {
	results, err := makeRunner(3, 2).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}

	expectedSizes := []int{1, 2, 4, 8}
	for i, r := range results {
		if r.Size != expectedSizes[i] {
			t.Errorf("Result %d: expected size %d, got %d", i, expectedSizes[i], r.Size)
		}
		if r.InsertionMeanMs < 0 || r.MergeMeanMs < 0 {
			t.Errorf("Result %d: negative mean time %+v", i, r)
		}
	}
}

func TestRunZeroExponent(t *test.T) {
	results, err := makeRunner(0, 1).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(results) != 1 || results[0].Size != 1 {
		t.Errorf("Expected a single result of size 1, got %+v", results)
	}
}

func TestRunMeanMillis(t *test.T) {
	runner := makeRunner(2, 3)
	runner.now = steppingClock(1500 * time.Microsecond)

	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	for _, r := range results {
		if r.InsertionMeanMs != 1.5 || r.MergeMeanMs != 1.5 {
			t.Errorf("Size %d: expected 1.5ms means, got insertion=%v merge=%v",
				r.Size, r.InsertionMeanMs, r.MergeMeanMs)
		}
	}
}

func TestMeanMillisTruncatesNanoseconds(t *test.T) {
	// 10ns over 3 trials is 3ns after integer division.
	if got := meanMillis(10*time.Nanosecond, 3); got != 0.000003 {
		t.Errorf("Expected 0.000003, got %v", got)
	}
	if got := meanMillis(5*time.Millisecond, 2); got != 2.5 {
		t.Errorf("Expected 2.5, got %v", got)
	}
}

func TestRunSharesInputBetweenAlgorithms(t *test.T) {
	runner := makeRunner(4, 2)

	var insertionInputs, mergeInputs []sorts.Sequence
	runner.Insertion = func(seq sorts.Sequence) {
		insertionInputs = append(insertionInputs, sorts.Clone(seq))
		sorts.InsertionSort(seq)
	}
	runner.Merge = func(seq sorts.Sequence) {
		mergeInputs = append(mergeInputs, sorts.Clone(seq))
		sorts.MergeSort(seq)
	}

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(insertionInputs) != 10 {
		t.Fatalf("Expected 10 insertion sort calls, got %d", len(insertionInputs))
	}
	if diff := cmp.Diff(insertionInputs, mergeInputs); diff != "" {
		t.Errorf("Algorithms saw different input (-insertion +merge):\n%s", diff)
	}
}

func TestRunAbortsOnDisagreement(t *test.T) {
	runner := makeRunner(5, 2)
	runner.Merge = func(seq sorts.Sequence) {
		sorts.MergeSort(seq)
		if len(seq) >= 4 {
			seq[0]--
		}
	}

	called := 0
	runner.OnResult = func(TrialResult) { called++ }

	results, err := runner.Run(context.Background())
	if err == nil {
		t.Fatalf("Expected a consistency error, got nil")
	}
	if !errors.Is(err, ErrInconsistentResults) {
		t.Errorf("Expected ErrInconsistentResults, got %v", err)
	}

	var ce *ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *ConsistencyError, got %T", err)
	}
	if ce.Size != 4 || ce.Trial != 0 || ce.Index != 0 {
		t.Errorf("Expected size 4 trial 0 index 0, got size %d trial %d index %d", ce.Size, ce.Trial, ce.Index)
	}
	if ce.Merge != ce.Insertion-1 {
		t.Errorf("Expected merge value to be insertion-1, got insertion=%d merge=%d", ce.Insertion, ce.Merge)
	}

	if len(results) != 2 || called != 2 {
		t.Errorf("Expected the 2 completed sizes before the failure, got %d results and %d callbacks", len(results), called)
	}
}

func TestRunCancelled(t *test.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := makeRunner(3, 2).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestRunInvalidConfig(t *test.T) {
	_, err := makeRunner(3, 0).Run(context.Background())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	runner := makeRunner(3, 1)
	runner.Config.MinValue = math.MaxInt64 / 2
	runner.Config.MaxValue = math.MaxInt64 - 1
	results, err := runner.Run(context.Background())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for an overflowing range, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestRunOnResultOrder(t *test.T) {
	runner := makeRunner(4, 1)
	var sizes []int
	runner.OnResult = func(r TrialResult) { sizes = append(sizes, r.Size) }

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 4, 8, 16}, sizes); diff != "" {
		t.Errorf("Unexpected callback order (-want +got):\n%s", diff)
	}
}
