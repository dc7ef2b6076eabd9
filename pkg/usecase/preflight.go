package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bosun/pkg/domain/types"
	"github.com/m-mizutani/bosun/pkg/infra/git"
)

// Preflight verifies the repository is releasable before anything mutates.
type Preflight struct {
	git *git.Client
}

// NewPreflight creates the preflight checker.
func NewPreflight(gitClient *git.Client) *Preflight {
	return &Preflight{git: gitClient}
}

// Check fails when the working tree has uncommitted changes or the local
// branch is behind its upstream. Its only side effect is the fetch needed to
// compare against upstream.
func (p *Preflight) Check(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	dirty, err := p.git.DiffNames(ctx)
	if err != nil {
		return err
	}
	if dirty != "" {
		return goerr.New("working tree has uncommitted changes",
			goerr.T(types.ErrTagPrecondition),
			goerr.V("files", dirty),
		)
	}

	if err := p.git.Fetch(ctx); err != nil {
		return err
	}
	behind, err := p.git.BehindCount(ctx)
	if err != nil {
		return err
	}
	if behind > 0 {
		return goerr.New(
			fmt.Sprintf("local branch is behind its upstream by %d commit(s)", behind),
			goerr.T(types.ErrTagPrecondition),
		)
	}

	logger.Debug("preflight checks passed")
	return nil
}
