package sorts

// Sequence is a fixed-length run of integers owned by whoever is sorting it.
// None of the functions in this package validate their input. A nil
// Sequence behaves as an empty one, indices passed to Merge must describe
// two adjacent, already sorted subranges.
type Sequence []int64

type SortFunc func(seq Sequence)

// InsertionSort sorts seq in place. Already sorted input costs a single pass.
func InsertionSort(seq Sequence) {
	for i := 1; i < len(seq); i++ {
		current := seq[i]
		j := i - 1
		for j >= 0 && seq[j] > current {
			seq[j+1] = seq[j]
			j--
		}
		seq[j+1] = current
	}
}

// MergeSort sorts seq in place with top-down recursion. Recursion depth is
// bounded by log2(len(seq)).
func MergeSort(seq Sequence) {
	if len(seq) > 1 {
		mergeSort(seq, 0, len(seq)-1)
	}
}

func mergeSort(seq Sequence, left, right int) {
	if left < right {
		middle := left + (right-left)/2
		mergeSort(seq, left, middle)
		mergeSort(seq, middle+1, right)
		Merge(seq, left, middle, right)
	}
}

// Merge combines the sorted ranges seq[left:middle+1] and
// seq[middle+1:right+1]. Equal values are taken from the left range first.
func Merge(seq Sequence, left, middle, right int) {
	leftBuf := make(Sequence, middle-left+1)
	rightBuf := make(Sequence, right-middle)
	copy(leftBuf, seq[left:middle+1])
	copy(rightBuf, seq[middle+1:right+1])

	i, j, k := 0, 0, left
	for i < len(leftBuf) && j < len(rightBuf) {
		if leftBuf[i] <= rightBuf[j] {
			seq[k] = leftBuf[i]
			i++
		} else {
			seq[k] = rightBuf[j]
			j++
		}
		k++
	}
	k += copy(seq[k:], leftBuf[i:])
	copy(seq[k:], rightBuf[j:])
}

func Clone(seq Sequence) Sequence {
	c := make(Sequence, len(seq))
	copy(c, seq)
	return c
}

func IsSorted(seq Sequence) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i-1] > seq[i] {
			return false
		}
	}
	return true
}

// Diff returns the first index at which a and b differ, or -1 when they hold
// the same values. A length mismatch reports the shorter length.
func Diff(a, b Sequence) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}
