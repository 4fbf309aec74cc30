package sort_experiment

// TrialResult holds the mean timings for one input size.
type TrialResult struct {
	Size            int     `json:"size"`
	InsertionMeanMs float64 `json:"insertion_mean_ms"`
	MergeMeanMs     float64 `json:"merge_mean_ms"`
}

func (tr TrialResult) MergeFaster() bool {
	return tr.MergeMeanMs < tr.InsertionMeanMs
}

// Crossover returns the smallest tested size from which merge sort was faster
// at that size and every larger one. results must be in ascending size order.
func Crossover(results []TrialResult) (int, bool) {
	size, found := 0, false
	for i := len(results) - 1; i >= 0; i-- {
		if !results[i].MergeFaster() {
			break
		}
		size, found = results[i].Size, true
	}
	return size, found
}
