// Package session mints the correlation identifier threaded through one
// compilation: PipelineContext.SessionID, the lowered ir.Module, the
// compile-history row, and (over the wire) a grpcbackend request. It
// carries no semantic weight of its own.
package session

import "github.com/google/uuid"

// New returns a fresh session identifier.
func New() string {
	return uuid.NewString()
}
