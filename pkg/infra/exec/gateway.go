// Package exec implements the execution gateway that every externally
// observable side effect of a release passes through. In dry-run mode the
// gateway prints the planned operation instead of performing it; the recorded
// plan is identical between modes for the same configuration.
package exec

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bosun/pkg/domain/model"
)

var planColor = color.New(color.FgYellow)

// Gateway executes structured commands and filesystem mutations, or records
// them when running in dry-run mode.
type Gateway struct {
	mode    model.ExecutionMode
	verbose bool
	out     io.Writer

	mu   sync.Mutex
	plan []string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithOutput redirects plan output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(g *Gateway) { g.out = w }
}

// WithVerbose echoes every executed command to the plan output in live mode.
func WithVerbose(v bool) Option {
	return func(g *Gateway) { g.verbose = v }
}

// New creates a Gateway bound to the given execution mode.
func New(mode model.ExecutionMode, opts ...Option) *Gateway {
	g := &Gateway{
		mode: mode,
		out:  os.Stdout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Mode returns the process-wide execution mode.
func (g *Gateway) Mode() model.ExecutionMode {
	return g.mode
}

// Plan returns the recorded side-effecting operations in order.
func (g *Gateway) Plan() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.plan))
	copy(out, g.plan)
	return out
}

func (g *Gateway) record(desc string) {
	g.mu.Lock()
	g.plan = append(g.plan, desc)
	g.mu.Unlock()
	if g.mode == model.DryRun {
		planColor.Fprintf(g.out, "[dry-run] %s\n", desc)
	} else if g.verbose {
		fmt.Fprintf(g.out, "+ %s\n", desc)
	}
}

// Run executes the command unconditionally. It is meant for read-only
// operations; mutating callers use RunSafely.
func (g *Gateway) Run(ctx context.Context, cmd model.Command) (string, error) {
	logger := ctxlog.From(ctx)
	logger.Debug("executing command", "command", cmd.String())

	c := osexec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Dir = cmd.Dir
	out, err := c.CombinedOutput()
	if err != nil {
		return string(out), goerr.Wrap(err, "command failed",
			goerr.V("command", cmd.String()),
			goerr.V("output", string(out)),
		)
	}
	return string(out), nil
}

// RunSafely records the command and, in live mode, executes it.
func (g *Gateway) RunSafely(ctx context.Context, cmd model.Command) (string, error) {
	g.record(cmd.String())
	if g.mode == model.DryRun {
		return "", nil
	}
	return g.Run(ctx, cmd)
}

// RemoveSafely deletes the given paths recursively.
func (g *Gateway) RemoveSafely(ctx context.Context, paths ...string) error {
	g.record("remove " + strings.Join(paths, " "))
	if g.mode == model.DryRun {
		return nil
	}
	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil {
			return goerr.Wrap(err, "failed to remove path", goerr.V("path", p))
		}
	}
	return nil
}

// WipeSafely deletes every entry inside dir except keep. A clone wiped this
// way contains only its version-control metadata afterwards.
func (g *Gateway) WipeSafely(ctx context.Context, dir, keep string) error {
	g.record(fmt.Sprintf("wipe %s (keep %s)", dir, keep))
	if g.mode == model.DryRun {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return goerr.Wrap(err, "failed to read directory", goerr.V("dir", dir))
	}
	for _, e := range entries {
		if e.Name() == keep {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return goerr.Wrap(err, "failed to remove entry", goerr.V("entry", e.Name()))
		}
	}
	return nil
}

// CopyTreeSafely copies the contents of src into dst, preserving the relative
// layout.
func (g *Gateway) CopyTreeSafely(ctx context.Context, src, dst string) error {
	g.record(fmt.Sprintf("copy %s -> %s", src, dst))
	if g.mode == model.DryRun {
		return nil
	}
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to copy tree",
			goerr.V("src", src), goerr.V("dst", dst))
	}
	return nil
}

// WriteFileSafely writes data to path.
func (g *Gateway) WriteFileSafely(ctx context.Context, path string, data []byte) error {
	g.record(fmt.Sprintf("write %s (%d bytes)", path, len(data)))
	if g.mode == model.DryRun {
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write file", goerr.V("path", path))
	}
	return nil
}

// DoSafely runs fn for side effects that are not external commands.
func (g *Gateway) DoSafely(ctx context.Context, desc string, fn func() error) error {
	g.record(desc)
	if g.mode == model.DryRun {
		return nil
	}
	return fn()
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
