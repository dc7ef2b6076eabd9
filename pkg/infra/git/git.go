// Package git builds structured git commands over the execution gateway.
// Mutating operations are dry-run aware; reads always execute.
package git

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
	"github.com/m-mizutani/bosun/pkg/domain/model"
)

// Client wraps the external git command.
type Client struct {
	gw interfaces.Gateway
}

// New creates a git client backed by the given gateway.
func New(gw interfaces.Gateway) *Client {
	return &Client{gw: gw}
}

func gitCmd(dir string, args ...string) model.Command {
	return model.Command{Program: "git", Args: args, Dir: dir}
}

// DiffNames lists files that differ from the last commit, staged or unstaged.
// Empty output means the working tree is clean.
func (c *Client) DiffNames(ctx context.Context) (string, error) {
	out, err := c.gw.Run(ctx, gitCmd("", "diff", "--name-only", "HEAD"))
	if err != nil {
		return "", goerr.Wrap(err, "failed to diff working tree")
	}
	return strings.TrimSpace(out), nil
}

// Fetch updates remote tracking state. This is the only network side effect
// the preflight check performs.
func (c *Client) Fetch(ctx context.Context) error {
	if _, err := c.gw.Run(ctx, gitCmd("", "fetch")); err != nil {
		return goerr.Wrap(err, "failed to fetch remote state")
	}
	return nil
}

var behindRe = regexp.MustCompile(`behind (\d+)`)

// BehindCount reports how many commits the local branch is behind its
// upstream. A branch with no upstream counts as zero.
func (c *Client) BehindCount(ctx context.Context) (int, error) {
	out, err := c.gw.Run(ctx, gitCmd("", "status", "--short", "--branch"))
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read branch status")
	}
	m := behindRe.FindStringSubmatch(out)
	if m == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, goerr.Wrap(err, "unexpected behind count", goerr.V("status", out))
	}
	return n, nil
}

// Add stages the given paths.
func (c *Client) Add(ctx context.Context, dir string, paths ...string) error {
	args := append([]string{"add"}, paths...)
	if _, err := c.gw.RunSafely(ctx, gitCmd(dir, args...)); err != nil {
		return goerr.Wrap(err, "failed to stage changes", goerr.V("paths", paths))
	}
	return nil
}

// Commit records the staged changes.
func (c *Client) Commit(ctx context.Context, dir, message string) error {
	if _, err := c.gw.RunSafely(ctx, gitCmd(dir, "commit", "-m", message)); err != nil {
		return goerr.Wrap(err, "failed to commit", goerr.V("message", message))
	}
	return nil
}

// Tag creates an annotated tag.
func (c *Client) Tag(ctx context.Context, dir, name, message string) error {
	if _, err := c.gw.RunSafely(ctx, gitCmd(dir, "tag", "-a", name, "-m", message)); err != nil {
		return goerr.Wrap(err, "failed to create tag", goerr.V("tag", name))
	}
	return nil
}

// PushFollowTags pushes commits together with their annotated tags.
func (c *Client) PushFollowTags(ctx context.Context, dir string) error {
	if _, err := c.gw.RunSafely(ctx, gitCmd(dir, "push", "--follow-tags")); err != nil {
		return goerr.Wrap(err, "failed to push")
	}
	return nil
}

// Clone clones url into dest.
func (c *Client) Clone(ctx context.Context, url, dest string) error {
	if _, err := c.gw.RunSafely(ctx, gitCmd("", "clone", url, dest)); err != nil {
		return goerr.Wrap(err, "failed to clone repository", goerr.V("url", url))
	}
	return nil
}

// Unstage removes path from the index without touching the working tree.
func (c *Client) Unstage(ctx context.Context, path string) error {
	if _, err := c.gw.RunSafely(ctx, gitCmd("", "reset", "HEAD", path)); err != nil {
		return goerr.Wrap(err, "failed to unstage", goerr.V("path", path))
	}
	return nil
}

// Restore replaces path with its last committed content.
func (c *Client) Restore(ctx context.Context, path string) error {
	if _, err := c.gw.RunSafely(ctx, gitCmd("", "checkout", "--", path)); err != nil {
		return goerr.Wrap(err, "failed to restore", goerr.V("path", path))
	}
	return nil
}
