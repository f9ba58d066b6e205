package model

import "fmt"

// InvariantError reports a violation of one of the topology model's
// structural invariants. It is never expected in normal operation; its
// presence indicates a bug in a dissector or in the model itself, and the
// caller is expected to treat it as fatal after flushing any pending output.
type InvariantError struct {
	Entity    string // "Network", "Interface", "IPEndpoint", "Cloud"
	ID        int64
	Operation string
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("model invariant violated: %s id=%d op=%q: %s", e.Entity, e.ID, e.Operation, e.Detail)
}
