package usecase_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bosun/pkg/domain/model"
	"github.com/m-mizutani/bosun/pkg/infra/manifest"
)

// mockGateway is a hand-rolled gateway double. It records every safe
// operation the way the real gateway records its plan, serves canned outputs
// for reads, and can be told to fail specific commands.
type mockGateway struct {
	mode     model.ExecutionMode
	plan     []string
	outputs  map[string]string // exact command string -> output (Run and RunSafely)
	failSafe map[string]error  // command prefix -> error for RunSafely
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		mode:     model.Live,
		outputs:  map[string]string{},
		failSafe: map[string]error{},
	}
}

func (m *mockGateway) Mode() model.ExecutionMode { return m.mode }

func (m *mockGateway) Run(ctx context.Context, cmd model.Command) (string, error) {
	return m.outputs[cmd.String()], nil
}

func (m *mockGateway) RunSafely(ctx context.Context, cmd model.Command) (string, error) {
	s := cmd.String()
	m.plan = append(m.plan, s)
	for prefix, err := range m.failSafe {
		if strings.HasPrefix(s, prefix) {
			return "captured failure output", err
		}
	}
	return m.outputs[s], nil
}

func (m *mockGateway) RemoveSafely(ctx context.Context, paths ...string) error {
	m.plan = append(m.plan, "remove "+strings.Join(paths, " "))
	return nil
}

func (m *mockGateway) WipeSafely(ctx context.Context, dir, keep string) error {
	m.plan = append(m.plan, fmt.Sprintf("wipe %s (keep %s)", dir, keep))
	return nil
}

func (m *mockGateway) CopyTreeSafely(ctx context.Context, src, dst string) error {
	m.plan = append(m.plan, fmt.Sprintf("copy %s -> %s", src, dst))
	return nil
}

func (m *mockGateway) WriteFileSafely(ctx context.Context, path string, data []byte) error {
	m.plan = append(m.plan, fmt.Sprintf("write %s (%d bytes)", path, len(data)))
	return nil
}

func (m *mockGateway) DoSafely(ctx context.Context, desc string, fn func() error) error {
	m.plan = append(m.plan, desc)
	return fn()
}

func (m *mockGateway) Plan() []string { return m.plan }

// planIndex returns the position of the first plan entry with the given
// prefix, or -1.
func (m *mockGateway) planIndex(prefix string) int {
	for i, p := range m.plan {
		if strings.HasPrefix(p, prefix) {
			return i
		}
	}
	return -1
}

func loadManifest(t *testing.T, content string) *manifest.Manifest {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	mf, err := manifest.Load(path)
	gt.NoError(t, err)
	return mf
}
