package usecase_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bosun/pkg/domain/model"
	"github.com/m-mizutani/bosun/pkg/domain/types"
	"github.com/m-mizutani/bosun/pkg/infra/git"
	"github.com/m-mizutani/bosun/pkg/usecase"
)

func TestChangelogCapability(t *testing.T) {
	t.Run("detected from dev dependencies", func(t *testing.T) {
		mf := loadManifest(t, `{"name": "widget", "version": "1.0.0", "devDependencies": {"changelog": "^2.0.0"}}`)
		gt.True(t, usecase.ChangelogCapability(mf))
	})

	t.Run("the tool's own repository qualifies", func(t *testing.T) {
		mf := loadManifest(t, `{"name": "changelog", "version": "1.0.0"}`)
		gt.True(t, usecase.ChangelogCapability(mf))
	})

	t.Run("absent otherwise", func(t *testing.T) {
		mf := loadManifest(t, `{"name": "widget", "version": "1.0.0"}`)
		gt.Value(t, usecase.ChangelogCapability(mf)).Equal(false)
	})
}

func TestChangelogStage_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled stage does nothing", func(t *testing.T) {
		gw := newMockGateway()
		stage := usecase.NewChangelogStage(gw, git.New(gw), false)

		rc := newReleaseContext(model.ReleaseConfig{Bump: "minor"})
		gt.NoError(t, stage.Generate(ctx, rc))
		gt.Number(t, len(gw.Plan())).Equal(0)
		gt.Equal(t, rc.Notes, "")
	})

	t.Run("regular release writes the primary changelog and captures notes", func(t *testing.T) {
		t.Chdir(t.TempDir())
		gw := newMockGateway()
		gw.outputs["changelog --title v1.3.0 --stdout"] = "### Features\n- everything\n"
		stage := usecase.NewChangelogStage(gw, git.New(gw), true)

		rc := newReleaseContext(model.ReleaseConfig{Bump: "minor"})
		gt.NoError(t, stage.Generate(ctx, rc))

		gt.Equal(t, gw.Plan(), []string{
			"changelog --title v1.3.0 --file CHANGELOG.md --no-prereleases",
			"git add CHANGELOG.md",
			"changelog --title v1.3.0 --stdout",
		})
		gt.Equal(t, rc.Notes, "### Features\n- everything")
	})

	t.Run("pre-release writes the pre-release changelog without the exclusion flag", func(t *testing.T) {
		t.Chdir(t.TempDir())
		gw := newMockGateway()
		stage := usecase.NewChangelogStage(gw, git.New(gw), true)

		rc := &model.ReleaseContext{
			Config:  model.ReleaseConfig{Preid: "beta"},
			Version: model.NewVersionInfo("1.2.3", "1.3.0-beta.0"),
		}
		gt.NoError(t, stage.Generate(ctx, rc))

		gt.Equal(t, gw.Plan(), []string{
			"changelog --title v1.3.0-beta.0 --file CHANGELOG.prerelease.md",
			"git add CHANGELOG.prerelease.md",
			"changelog --title v1.3.0-beta.0 --stdout",
		})
	})

	t.Run("stale pre-release changelog is deleted and the deletion staged", func(t *testing.T) {
		t.Chdir(t.TempDir())
		gt.NoError(t, os.WriteFile(types.PrereleaseChangelogFile, []byte("stale"), 0644))

		gw := newMockGateway()
		stage := usecase.NewChangelogStage(gw, git.New(gw), true)

		rc := newReleaseContext(model.ReleaseConfig{Bump: "minor"})
		gt.NoError(t, stage.Generate(ctx, rc))

		gt.Equal(t, gw.Plan()[0], "remove "+types.PrereleaseChangelogFile)
		gt.Equal(t, gw.Plan()[1], "git add "+types.PrereleaseChangelogFile)
	})

	t.Run("operator notes are appended to the title", func(t *testing.T) {
		t.Chdir(t.TempDir())
		gw := newMockGateway()
		stage := usecase.NewChangelogStage(gw, git.New(gw), true)

		rc := newReleaseContext(model.ReleaseConfig{Bump: "minor", Notes: "hotfix for the widget factory"})
		gt.NoError(t, stage.Generate(ctx, rc))
		gt.String(t, gw.Plan()[0]).Contains(`"v1.3.0 hotfix for the widget factory"`)
	})
}
