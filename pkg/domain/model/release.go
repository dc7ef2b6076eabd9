package model

import "strings"

// ReleaseConfig is parsed once from the CLI and is read-only for the rest of
// the run.
type ReleaseConfig struct {
	// Bump is "major", "minor", "patch", an explicit target version string,
	// or empty when only a pre-release identifier drives the resolution.
	Bump string
	// Preid is the pre-release identifier, e.g. "beta".
	Preid string
	// RegistryTag overrides the registry distribution tag.
	RegistryTag string
	// Notes is free-text appended to the changelog title.
	Notes string

	DocsOnly        bool
	Verbose         bool
	SkipTests       bool
	SkipBuild       bool
	SkipVersionBump bool
}

// EffectivePreid returns the pre-release identifier that applies to this run.
// Documentation-only releases get a synthetic "docs" identifier so the tag
// clearly marks them as not generally available.
func (c ReleaseConfig) EffectivePreid(docsPreid string) string {
	if c.Preid == "" && c.DocsOnly {
		return docsPreid
	}
	return c.Preid
}

// VersionInfo holds the resolved version pair. New is computed exactly once
// per release and never recomputed.
type VersionInfo struct {
	Old string
	New string
	Tag string
}

// NewVersionInfo derives the tag name ("v" + version) from the new version.
func NewVersionInfo(oldVersion, newVersion string) VersionInfo {
	return VersionInfo{
		Old: oldVersion,
		New: newVersion,
		Tag: "v" + newVersion,
	}
}

// IsPrerelease reports whether the resolved version carries a pre-release
// segment.
func (v VersionInfo) IsPrerelease() bool {
	return strings.Contains(v.New, "-")
}

// ReleaseContext is the single mutable aggregate threaded through the
// pipeline. It is owned by the orchestrator; stages receive it only for the
// duration of their own call.
type ReleaseContext struct {
	Config  ReleaseConfig
	Version VersionInfo

	// Notes is the changelog-derived text used as the tag annotation and
	// the host release body.
	Notes string

	// Reverted is set when the build/test gate rolled back the version
	// bump.
	Reverted bool
}
