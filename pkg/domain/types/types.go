package types

import "github.com/m-mizutani/goerr/v2"

// Version is the application version, overridden at build time via -ldflags.
var Version = "dev"

// Well-known file names and external tool names. The manifest layout and the
// changelog tool contract follow the npm ecosystem conventions the projects
// released by bosun use.
const (
	ManifestFile            = "package.json"
	ChangelogFile           = "CHANGELOG.md"
	PrereleaseChangelogFile = "CHANGELOG.prerelease.md"

	ChangelogTool   = "changelog"
	RegistryCommand = "npm"
	IndexCommand    = "bower"
)

// DocsPreid marks documentation-only releases in their version tag.
const DocsPreid = "docs"

// Error tags classify failures so the CLI can decide how to report them.
var (
	// ErrTagUsage marks operator mistakes. Usage text is printed and the
	// process exits before any mutation.
	ErrTagUsage = goerr.NewTag("usage")

	// ErrTagPrecondition marks failed preflight checks (dirty tree, behind
	// upstream). Nothing has been mutated yet.
	ErrTagPrecondition = goerr.NewTag("precondition")

	// ErrTagGateFailed marks test/build failures. The version bump has
	// already been rolled back by the gate when this tag is present.
	ErrTagGateFailed = goerr.NewTag("gate_failed")
)
