package analysis

import "context"

// Analyzer produces a narrative analysis from pre-computed aggregates.
type Analyzer interface {
	Generate(ctx context.Context, req Request) (*Analysis, error)
}
