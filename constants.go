package sort_experiment

const (
	DEBUG = false

	// Defaults match the sweep the harness was first written for: arrays up
	// to 2^13 elements, five trials each, values in [0, 10000].
	DefaultMaxExponent   uint  = 13
	DefaultTrialsPerSize uint  = 5
	DefaultMinValue      int64 = 0
	DefaultMaxValue      int64 = 10000

	// Sizes are 1<<exp stored in an int.
	MaxSupportedExponent uint = 30
)

type Outcome string

const (
	OutcomeCompleted    Outcome = "completed"
	OutcomeInconsistent Outcome = "inconsistent"
	OutcomeCancelled    Outcome = "cancelled"
	OutcomeFailed       Outcome = "failed"
)
