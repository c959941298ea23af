package ml

import "fmt"

// MinClusters is the smallest cluster count for which a silhouette exists.
const MinClusters = 2

// DefaultRange scores k = 2..10.
var DefaultRange = Range{Min: MinClusters, Max: 11}

// Range is the inclusive-exclusive range [Min, Max) of candidate cluster counts.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Validate checks the range invariants.
func (r Range) Validate() error {
	if r.Min < MinClusters {
		return fmt.Errorf("lower bound %d is below %d", r.Min, MinClusters)
	}
	if r.Max <= r.Min {
		return fmt.Errorf("upper bound %d must be greater than lower bound %d", r.Max, r.Min)
	}
	return nil
}

// Len returns the number of candidates in the range.
func (r Range) Len() int {
	if r.Max <= r.Min {
		return 0
	}
	return r.Max - r.Min
}

// Ks lists the candidate cluster counts in ascending order.
func (r Range) Ks() []int {
	ks := make([]int, 0, r.Len())
	for k := r.Min; k < r.Max; k++ {
		ks = append(ks, k)
	}
	return ks
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Min, r.Max)
}
