package interfaces

import (
	"context"

	"github.com/m-mizutani/bosun/pkg/domain/model"
)

// Gateway is the single choke point for externally observable side effects.
// Every mutating operation in the pipeline goes through a *Safely method so
// dry-run is one cross-cutting toggle instead of a branch at every call site.
type Gateway interface {
	// Mode returns the process-wide execution mode.
	Mode() model.ExecutionMode

	// Run executes the command unconditionally (used for reads such as
	// diffs and fetches). Non-zero exit returns an error carrying the
	// captured output.
	Run(ctx context.Context, cmd model.Command) (string, error)

	// RunSafely records the command in the plan; in dry-run it prints the
	// planned command and returns empty output, in live mode it delegates
	// to Run.
	RunSafely(ctx context.Context, cmd model.Command) (string, error)

	// RemoveSafely deletes the given paths recursively (dry-run aware).
	RemoveSafely(ctx context.Context, paths ...string) error

	// WipeSafely deletes every entry inside dir except keep (dry-run
	// aware). Used to reset mirror clones without touching their
	// version-control metadata.
	WipeSafely(ctx context.Context, dir, keep string) error

	// CopyTreeSafely copies the contents of src into dst (dry-run aware).
	CopyTreeSafely(ctx context.Context, src, dst string) error

	// WriteFileSafely writes data to path (dry-run aware).
	WriteFileSafely(ctx context.Context, path string, data []byte) error

	// DoSafely runs fn for side effects that are not external commands
	// (API calls, uploads). desc is what appears in the plan.
	DoSafely(ctx context.Context, desc string, fn func() error) error

	// Plan returns the descriptions of all side-effecting operations
	// recorded so far, in order. In dry-run this is exactly the sequence
	// that would have executed in live mode.
	Plan() []string
}
