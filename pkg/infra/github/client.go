package github

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
	"github.com/m-mizutani/bosun/pkg/domain/model"
)

type client struct {
	githubClient *github.Client
}

// NewClient creates a GitHub client authenticated with a personal access
// token.
func NewClient(token string) interfaces.HostClient {
	return &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}
}

// CreateRelease creates a release page for an already-pushed tag.
func (c *client) CreateRelease(ctx context.Context, owner, repo string, release *model.HostRelease) error {
	_, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, repo, &github.RepositoryRelease{
		TagName:    github.Ptr(release.TagName),
		Name:       github.Ptr(release.Name),
		Body:       github.Ptr(release.Body),
		Draft:      github.Ptr(false),
		Prerelease: github.Ptr(release.Prerelease),
	})
	if err != nil {
		if IsUnauthorized(err) {
			return goerr.Wrap(err, "host token is invalid or unauthorized")
		}
		return goerr.Wrap(err, "failed to create host release",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("tag", release.TagName))
	}
	return nil
}

// IsUnauthorized reports whether the API rejected our credential.
func IsUnauthorized(err error) bool {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == http.StatusUnauthorized
	}
	return false
}

var (
	sshRepoRe   = regexp.MustCompile(`^git@[^:]+:([^/]+)/(.+?)(?:\.git)?$`)
	httpsRepoRe = regexp.MustCompile(`^(?:git\+)?https?://[^/]+/([^/]+)/(.+?)(?:\.git)?$`)
	bareRepoRe  = regexp.MustCompile(`^([^/]+)/([^/]+)$`)
)

// ParseOwnerRepo extracts the owner/repo pair from a declared repository URL.
// Accepted forms: SSH ("git@host:owner/repo.git"), HTTPS with an optional
// "git+" prefix, or a bare "owner/repo" string. Anything else is passed
// through unparsed and left for the host API to reject.
func ParseOwnerRepo(repositoryURL string) (owner, repo string) {
	url := strings.TrimSpace(repositoryURL)
	for _, re := range []*regexp.Regexp{sshRepoRe, httpsRepoRe, bareRepoRe} {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], m[2]
		}
	}
	return url, ""
}
