package bind

import "errors"

var (
	// ErrNoMatch means the scan found no usable feature: the mesh has no
	// triangles (or vertices), or every candidate was degenerate.
	ErrNoMatch = errors.New("no matching feature")

	// ErrNoContribution means the selected feature carries no bone weight,
	// so there is nothing to normalize.
	ErrNoContribution = errors.New("no bone weight contribution")

	// ErrUnknownStrategy means a bind method name matched no strategy.
	ErrUnknownStrategy = errors.New("unknown bind strategy")
)
