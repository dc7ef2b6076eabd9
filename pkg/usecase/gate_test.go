package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bosun/pkg/domain/model"
	"github.com/m-mizutani/bosun/pkg/domain/types"
	"github.com/m-mizutani/bosun/pkg/infra/git"
	"github.com/m-mizutani/bosun/pkg/usecase"
)

const gateManifest = `{
  "name": "widget",
  "version": "1.2.3",
  "scripts": {
    "test": "vitest run",
    "build": "rollup -c",
    "docs": "typedoc"
  }
}`

func newReleaseContext(cfg model.ReleaseConfig) *model.ReleaseContext {
	return &model.ReleaseContext{
		Config:  cfg,
		Version: model.NewVersionInfo("1.2.3", "1.3.0"),
	}
}

func TestBuildTestGate(t *testing.T) {
	ctx := context.Background()

	t.Run("runs tests then build", func(t *testing.T) {
		gw := newMockGateway()
		mf := loadManifest(t, gateManifest)
		gate := usecase.NewBuildTestGate(gw, git.New(gw), mf)

		gt.NoError(t, gate.Run(ctx, newReleaseContext(model.ReleaseConfig{Bump: "minor"})))
		gt.Equal(t, gw.Plan(), []string{"npm run test", "npm run build"})
	})

	t.Run("skips tests on operator request", func(t *testing.T) {
		gw := newMockGateway()
		mf := loadManifest(t, gateManifest)
		gate := usecase.NewBuildTestGate(gw, git.New(gw), mf)

		gt.NoError(t, gate.Run(ctx, newReleaseContext(model.ReleaseConfig{Bump: "minor", SkipTests: true})))
		gt.Equal(t, gw.Plan(), []string{"npm run build"})
	})

	t.Run("missing build command is a logged skip, not a failure", func(t *testing.T) {
		gw := newMockGateway()
		mf := loadManifest(t, `{"name": "widget", "version": "1.2.3"}`)
		gate := usecase.NewBuildTestGate(gw, git.New(gw), mf)

		gt.NoError(t, gate.Run(ctx, newReleaseContext(model.ReleaseConfig{Bump: "minor"})))
		gt.Number(t, len(gw.Plan())).Equal(0)
	})

	t.Run("docs-only run prefers the docs build command", func(t *testing.T) {
		gw := newMockGateway()
		mf := loadManifest(t, gateManifest)
		gate := usecase.NewBuildTestGate(gw, git.New(gw), mf)

		cfg := model.ReleaseConfig{DocsOnly: true, SkipTests: true}
		gt.NoError(t, gate.Run(ctx, newReleaseContext(cfg)))
		gt.Equal(t, gw.Plan(), []string{"npm run docs"})
	})

	t.Run("test failure rolls back the version bump", func(t *testing.T) {
		gw := newMockGateway()
		gw.failSafe["npm run test"] = errors.New("2 tests failed")
		mf := loadManifest(t, gateManifest)
		gate := usecase.NewBuildTestGate(gw, git.New(gw), mf)

		rc := newReleaseContext(model.ReleaseConfig{Bump: "minor"})
		err := gate.Run(ctx, rc)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagGateFailed))
		gt.True(t, rc.Reverted)

		// The compensating rollback: unstage the manifest, restore it from
		// version control.
		gt.Equal(t, gw.Plan(), []string{
			"npm run test",
			"git reset HEAD " + mf.Path(),
			"git checkout -- " + mf.Path(),
		})
	})

	t.Run("no rollback when the version bump was skipped", func(t *testing.T) {
		gw := newMockGateway()
		gw.failSafe["npm run build"] = errors.New("bundler exploded")
		mf := loadManifest(t, gateManifest)
		gate := usecase.NewBuildTestGate(gw, git.New(gw), mf)

		rc := newReleaseContext(model.ReleaseConfig{SkipVersionBump: true, SkipTests: true})
		err := gate.Run(ctx, rc)
		gt.Error(t, err)
		gt.Value(t, rc.Reverted).Equal(false)
		gt.Equal(t, gw.Plan(), []string{"npm run build"})
	})
}
