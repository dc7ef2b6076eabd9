package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
	"github.com/m-mizutani/bosun/pkg/domain/model"
	"github.com/m-mizutani/bosun/pkg/domain/types"
	"github.com/m-mizutani/bosun/pkg/infra/git"
	"github.com/m-mizutani/bosun/pkg/infra/manifest"
)

// BuildTestGate runs the project's test and build commands. By the time it
// runs, the manifest version bump is already staged, so a failure triggers a
// compensating rollback (unstage + restore from version control) before the
// error propagates.
type BuildTestGate struct {
	gw  interfaces.Gateway
	git *git.Client
	mf  *manifest.Manifest
}

// NewBuildTestGate creates the gate.
func NewBuildTestGate(gw interfaces.Gateway, gitClient *git.Client, mf *manifest.Manifest) *BuildTestGate {
	return &BuildTestGate{gw: gw, git: gitClient, mf: mf}
}

// Run executes the test stage, then the build stage.
func (g *BuildTestGate) Run(ctx context.Context, rc *model.ReleaseContext) error {
	if err := g.runTests(ctx, rc); err != nil {
		return err
	}
	return g.runBuild(ctx, rc)
}

func (g *BuildTestGate) runTests(ctx context.Context, rc *model.ReleaseContext) error {
	logger := ctxlog.From(ctx)

	if rc.Config.SkipTests {
		logger.Info("test stage skipped by operator request")
		return nil
	}
	if g.mf.Script("test") == "" {
		logger.Info("test stage skipped: no test command declared")
		return nil
	}

	out, err := g.gw.RunSafely(ctx, scriptCommand("test"))
	if err != nil {
		return g.fail(ctx, rc, "tests failed", out, err)
	}
	logger.Info("tests passed")
	return nil
}

func (g *BuildTestGate) runBuild(ctx context.Context, rc *model.ReleaseContext) error {
	logger := ctxlog.From(ctx)

	if rc.Config.SkipBuild {
		logger.Info("build stage skipped by operator request")
		return nil
	}

	script := "build"
	if rc.Config.DocsOnly && g.mf.Script("docs") != "" {
		script = "docs"
	}
	if g.mf.Script(script) == "" {
		logger.Info("build stage skipped: no build command declared")
		return nil
	}

	out, err := g.gw.RunSafely(ctx, scriptCommand(script))
	if err != nil {
		return g.fail(ctx, rc, "build failed", out, err)
	}
	logger.Info("build passed", "script", script)
	return nil
}

// fail rolls back the staged version bump and returns the gate error with the
// captured command output attached.
func (g *BuildTestGate) fail(ctx context.Context, rc *model.ReleaseContext, msg, output string, cause error) error {
	logger := ctxlog.From(ctx)

	if !rc.Config.SkipVersionBump {
		if err := g.git.Unstage(ctx, g.mf.Path()); err != nil {
			logger.Error("failed to unstage manifest during rollback", "error", err)
		}
		if err := g.git.Restore(ctx, g.mf.Path()); err != nil {
			logger.Error("failed to restore manifest during rollback", "error", err)
		}
		rc.Reverted = true
		logger.Warn("reverted version bump after gate failure",
			"manifest", g.mf.Path(),
			"old_version", rc.Version.Old,
		)
	}

	return goerr.Wrap(cause, msg,
		goerr.T(types.ErrTagGateFailed),
		goerr.V("output", output),
	)
}

func scriptCommand(name string) model.Command {
	return model.Command{Program: types.RegistryCommand, Args: []string{"run", name}}
}
