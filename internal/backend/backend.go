// Package backend defines the contract an Azula backend implements:
// turning a validated ir.Module into whatever final artifact that
// backend produces. The compiler ships two: nullbackend, which only
// validates and writes nothing, and grpcbackend, which hands the module
// off to an external process over gRPC.
package backend

import (
	"context"

	"github.com/azula-lang/azc/internal/ir"
)

// OptLevel mirrors the handful of optimization tiers a backend may
// honor; backends that don't optimize (nullbackend) ignore it.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptSpeed
	OptSize
)

// Options carries driver-level choices a Backend needs but that have no
// place in the IR itself.
type Options struct {
	Name             string
	DestinationDir   string
	EmitIntermediate bool
	TargetTriple     string
	Opt              OptLevel
	SessionID        string
}

// Backend turns a lowered module into a final artifact (or, for
// nullbackend, into nothing but a validation pass).
type Backend interface {
	Codegen(ctx context.Context, opts Options, module *ir.Module) error
	Name() string
}
