package ml

import "fmt"

// InsufficientDataError signals that the data set or the candidate range
// cannot support the requested clustering.
// Err holds the underlying validation failure, if any.
type InsufficientDataError struct {
	Rows   int
	Range  Range
	Reason string
	Err    error
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %v with %d rows: %s", e.Range, e.Rows, e.Reason)
}

func (e *InsufficientDataError) Unwrap() error {
	return e.Err
}

// DegenerateClusterError signals that the best fit for a cluster count
// left some clusters empty, so the silhouette for it is undefined.
type DegenerateClusterError struct {
	Entry    Entry
	Clusters int
}

func (e *DegenerateClusterError) Error() string {
	return fmt.Sprintf("degenerate fit for k = %d: only %d non-empty clusters", e.Entry.K, e.Clusters)
}
