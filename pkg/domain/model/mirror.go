package model

import "github.com/m-mizutani/goerr/v2"

// MirrorTarget describes one satellite repository that receives a copy of
// build output. An empty RepositoryURL means the target is disabled, which is
// a valid configuration, not an error.
type MirrorTarget struct {
	// RepositoryURL is the clone/push URL of the satellite repository.
	RepositoryURL string
	// SourceDir is the directory whose contents are mirrored.
	SourceDir string
	// ScratchDir is the disposable working clone location. It is removed at
	// the end of every mirror run.
	ScratchDir string
	// RegisterName, when set on a distribution target, triggers a
	// best-effort package-index registration after mirroring.
	RegisterName string
}

// Enabled reports whether this target should be mirrored at all.
func (t MirrorTarget) Enabled() bool {
	return t.RepositoryURL != ""
}

// Validate checks the caller contract: an enabled target must be fully
// populated before use.
func (t MirrorTarget) Validate() error {
	if t.RepositoryURL == "" || t.SourceDir == "" || t.ScratchDir == "" {
		return goerr.New("mirror target is not fully configured",
			goerr.V("repository", t.RepositoryURL),
			goerr.V("source_dir", t.SourceDir),
			goerr.V("scratch_dir", t.ScratchDir),
		)
	}
	return nil
}

// ReleaseSettings is the per-project publishing configuration read from the
// manifest's "release" object.
type ReleaseSettings struct {
	// Dist is the secondary distribution-format mirror (optional).
	Dist MirrorTarget
	// Docs is the documentation-site mirror (optional).
	Docs MirrorTarget
	// PackageRoot, when set, is the alternate directory the registry
	// publish runs from, with a trimmed manifest written into it.
	PackageRoot string
}

// HostRelease is the payload for the code-hosting provider's releases API.
type HostRelease struct {
	TagName    string
	Name       string
	Body       string
	Prerelease bool
}
