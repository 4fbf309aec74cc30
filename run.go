package sort_experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	cp "github.com/jinzhu/copier"
	"github.com/samber/lo"
)

// ExperimentRun is one stored sweep: the config it ran with, how it ended
// and the per-size results it produced before ending.
type ExperimentRun struct {
	ID        uint
	CreatedAt time.Time
	// Config.Seed holds the seed actually used, so a run can be replayed.
	Config  *ExperimentConfig `gorm:"embedded"`
	Outcome Outcome
	Error   *string
	Results []TrialRecord
}

type TrialRecord struct {
	ID              uint
	ExperimentRunID uint `gorm:"index"`
	Size            int
	InsertionMeanMs float64
	MergeMeanMs     float64
}

func NewExperimentRun(config *ExperimentConfig, seed int64, results []TrialResult, runErr error) (*ExperimentRun, error) {
	run := &ExperimentRun{
		Config:  config.Clone(),
		Outcome: outcomeOf(runErr),
	}
	run.Config.Seed = seed
	if len(results) > 0 {
		if err := cp.Copy(&run.Results, results); err != nil {
			return nil, fmt.Errorf("failed to copy trial results: %w", err)
		}
	}
	if runErr != nil {
		msg := runErr.Error()
		run.Error = &msg
	}
	return run, nil
}

func outcomeOf(err error) Outcome {
	var ce *ConsistencyError
	switch {
	case err == nil:
		return OutcomeCompleted
	case errors.As(err, &ce):
		return OutcomeInconsistent
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}

// TrialResults converts the stored records back into report rows.
func (r *ExperimentRun) TrialResults() []TrialResult {
	return lo.Map(r.Results, func(rec TrialRecord, _ int) TrialResult {
		return TrialResult{
			Size:            rec.Size,
			InsertionMeanMs: rec.InsertionMeanMs,
			MergeMeanMs:     rec.MergeMeanMs,
		}
	})
}
