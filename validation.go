package sort_experiment

import (
	"errors"
	"fmt"

	"nickandperla.net/sort_experiment/sorts"
)

var ErrInconsistentResults = errors.New("sorting algorithms produced different results")

// ConsistencyError reports the first position where the two algorithms
// disagreed on identical input. A run that hits one is aborted; retrying
// would only reproduce the same bug.
type ConsistencyError struct {
	Size      int
	Trial     uint
	Index     int
	Insertion int64
	Merge     int64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%v: size %d trial %d index %d (insertion=%d merge=%d)",
		ErrInconsistentResults, e.Size, e.Trial, e.Index, e.Insertion, e.Merge)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrInconsistentResults
}

// CrossValidate compares the insertion and merge outputs for one trial.
func CrossValidate(size int, trial uint, insertion, merge sorts.Sequence) error {
	idx := sorts.Diff(insertion, merge)
	if idx < 0 {
		return nil
	}
	ce := &ConsistencyError{Size: size, Trial: trial, Index: idx}
	if idx < len(insertion) {
		ce.Insertion = insertion[idx]
	}
	if idx < len(merge) {
		ce.Merge = merge[idx]
	}
	return ce
}
