package usecase

import (
	"context"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
	"github.com/m-mizutani/bosun/pkg/domain/model"
	"github.com/m-mizutani/bosun/pkg/domain/types"
	"github.com/m-mizutani/bosun/pkg/infra/git"
	"github.com/m-mizutani/bosun/pkg/infra/manifest"
)

// ChangelogCapability probes once at startup whether the project uses the
// changelog-generation convention: either it declares the tool as a dev
// dependency or it is the tool's own repository.
func ChangelogCapability(mf *manifest.Manifest) bool {
	return mf.HasDevDependency(types.ChangelogTool) || mf.Name() == types.ChangelogTool
}

// ChangelogStage invokes the external changelog generator, stages its output
// for the release commit, and captures plain-text release notes for the tag
// annotation and host release body.
type ChangelogStage struct {
	gw      interfaces.Gateway
	git     *git.Client
	enabled bool
}

// NewChangelogStage creates the stage. enabled is the capability flag from
// ChangelogCapability.
func NewChangelogStage(gw interfaces.Gateway, gitClient *git.Client, enabled bool) *ChangelogStage {
	return &ChangelogStage{gw: gw, git: gitClient, enabled: enabled}
}

// Generate writes the changelog file, stages it, and fills rc.Notes. The
// generator runs twice: once into the changelog file and once in stdout mode,
// because the pre-release inclusion flags differ between the two outputs.
func (s *ChangelogStage) Generate(ctx context.Context, rc *model.ReleaseContext) error {
	logger := ctxlog.From(ctx)

	if !s.enabled {
		logger.Debug("changelog stage skipped: project does not use the changelog convention")
		return nil
	}

	title := rc.Version.Tag
	if rc.Config.Notes != "" {
		title = title + " " + rc.Config.Notes
	}

	file := types.ChangelogFile
	prerelease := rc.Version.IsPrerelease()
	if prerelease {
		file = types.PrereleaseChangelogFile
	} else if _, err := os.Stat(types.PrereleaseChangelogFile); err == nil {
		// A stale pre-release changelog must not survive a regular
		// release; its deletion is staged into the release commit.
		if err := s.gw.RemoveSafely(ctx, types.PrereleaseChangelogFile); err != nil {
			return err
		}
		if err := s.git.Add(ctx, "", types.PrereleaseChangelogFile); err != nil {
			return err
		}
	}

	args := []string{"--title", title, "--file", file}
	if !prerelease {
		args = append(args, "--no-prereleases")
	}
	if _, err := s.gw.RunSafely(ctx, model.Command{Program: types.ChangelogTool, Args: args}); err != nil {
		return err
	}
	if err := s.git.Add(ctx, "", file); err != nil {
		return err
	}

	notes, err := s.gw.RunSafely(ctx, model.Command{
		Program: types.ChangelogTool,
		Args:    []string{"--title", title, "--stdout"},
	})
	if err != nil {
		return err
	}
	rc.Notes = strings.TrimSpace(notes)

	logger.Info("changelog generated", "file", file, "notes_bytes", len(rc.Notes))
	return nil
}
