package ports

import "context"

// SpoolState records which spool files have already been processed.
type SpoolState struct {
	// Processed maps a spool file name to the size it had when processed.
	Processed map[string]int64 `json:"processed"`
}

// StateRepository persists spool progress across restarts.
type StateRepository interface {
	// Load retrieves the last saved state.
	// Returns an empty state and nil error if no state exists.
	Load(ctx context.Context) (SpoolState, error)

	// Save persists the state atomically.
	Save(ctx context.Context, state SpoolState) error
}
