// Package workflow runs the risk assessment pipeline as a state graph
// (extract → evaluate? → compose? → finalize) over a product hierarchy.
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrMissingState = errors.New("missing assessment state")
	ErrBuildGraph   = errors.New("failed to build assessment graph")
)
