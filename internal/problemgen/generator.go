package problemgen

import "context"

// Source produces batches of generated problems.
type Source interface {
	// RequestBatch returns exactly count problems for level, all tagged
	// ProvenanceAI and stamped with level. It never falls back: every
	// failure is returned as an error from the taxonomy in errors.go.
	RequestBatch(ctx context.Context, level Level, count int) ([]Problem, error)
}
