package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bosun/pkg/domain/types"
)

// ResolveVersion computes the next version from the current one. bump is
// "major", "minor", "patch", an explicit target version, or empty; preid, when
// set, stamps (or increments) a pre-release segment on the result.
//
// Pure function: no I/O, no side effects.
func ResolveVersion(current, bump, preid string) (string, error) {
	if bump == "" && preid == "" {
		return "", goerr.New("must specify a version bump or a pre-release identifier",
			goerr.T(types.ErrTagUsage))
	}

	var base string
	switch bump {
	case "":
		// Re-stamping a pre-release on the current version itself.
		base = current
	case "major", "minor", "patch":
		cur, err := semver.NewVersion(current)
		if err != nil {
			return "", goerr.Wrap(err, "current version is not valid semver",
				goerr.V("version", current))
		}
		var next semver.Version
		switch bump {
		case "major":
			next = cur.IncMajor()
		case "minor":
			next = cur.IncMinor()
		case "patch":
			next = cur.IncPatch()
		}
		base = next.String()
	default:
		// Explicit target version, used verbatim. Only the pre-release
		// increment below validates it.
		base = bump
	}

	if preid == "" {
		return base, nil
	}

	v, err := semver.NewVersion(base)
	if err != nil {
		return "", goerr.Wrap(err, "base version is not valid semver",
			goerr.V("version", base))
	}

	counter := 0
	if pre := v.Prerelease(); strings.HasPrefix(pre, preid+".") {
		if n, err := strconv.Atoi(strings.TrimPrefix(pre, preid+".")); err == nil {
			counter = n + 1
		}
	}
	next, err := v.SetPrerelease(fmt.Sprintf("%s.%d", preid, counter))
	if err != nil {
		return "", goerr.Wrap(err, "failed to set pre-release segment",
			goerr.V("version", base), goerr.V("preid", preid))
	}
	return next.String(), nil
}
