package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
	"github.com/m-mizutani/bosun/pkg/domain/model"
	"github.com/m-mizutani/bosun/pkg/infra/git"
)

// MirrorPublisher mirrors build output into a satellite repository. The same
// protocol serves every target kind: clone into a scratch directory, wipe the
// clone down to its version-control metadata, copy the source contents in,
// commit, tag, push, clean up.
type MirrorPublisher struct {
	gw  interfaces.Gateway
	git *git.Client
}

// NewMirrorPublisher creates the publisher.
func NewMirrorPublisher(gw interfaces.Gateway, gitClient *git.Client) *MirrorPublisher {
	return &MirrorPublisher{gw: gw, git: gitClient}
}

// Mirror publishes one satellite target. An incomplete target or missing
// version tag is a caller-contract violation.
func (p *MirrorPublisher) Mirror(ctx context.Context, target model.MirrorTarget, versionTag string) error {
	logger := ctxlog.From(ctx)

	if versionTag == "" {
		return goerr.New("mirror requires a version tag")
	}
	if err := target.Validate(); err != nil {
		return err
	}

	logger.Info("mirroring to satellite repository",
		"repository", target.RepositoryURL,
		"source_dir", target.SourceDir,
		"tag", versionTag,
	)

	// Idempotent reset: a leftover scratch directory from an interrupted
	// run must not poison this one.
	if err := p.gw.RemoveSafely(ctx, target.ScratchDir); err != nil {
		return err
	}
	defer func() {
		if err := p.gw.RemoveSafely(ctx, target.ScratchDir); err != nil {
			logger.Error("failed to clean up scratch directory",
				"scratch_dir", target.ScratchDir, "error", err)
		}
	}()

	if err := p.git.Clone(ctx, target.RepositoryURL, target.ScratchDir); err != nil {
		return err
	}

	// The mirror must reflect only the current build output; stale files
	// from earlier releases may not accumulate.
	if err := p.gw.WipeSafely(ctx, target.ScratchDir, ".git"); err != nil {
		return err
	}
	if err := p.gw.CopyTreeSafely(ctx, target.SourceDir, target.ScratchDir); err != nil {
		return err
	}

	if err := p.git.Add(ctx, target.ScratchDir, "--all", "."); err != nil {
		return err
	}
	if err := p.git.Commit(ctx, target.ScratchDir, "release "+versionTag); err != nil {
		return err
	}
	if err := p.git.Tag(ctx, target.ScratchDir, versionTag, versionTag); err != nil {
		return err
	}
	if err := p.git.PushFollowTags(ctx, target.ScratchDir); err != nil {
		return err
	}

	logger.Info("satellite mirror published", "repository", target.RepositoryURL)
	return nil
}
