package audit

import "context"

// Store receives published audit events. Implementations must tolerate
// concurrent appends.
type Store interface {
	Append(ctx context.Context, event Event) error
}
