// Package manifest reads and mutates the package manifest (package.json).
// Edits go through sjson so the original key order and formatting survive the
// version bump; the file is always written back pretty-printed with a trailing
// newline.
package manifest

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/m-mizutani/bosun/pkg/domain/model"
)

// Fields removed from the trimmed manifest that gets published from an
// alternate package root. These are build-time concerns with no meaning to
// consumers of the published package.
var trimmedFields = []string{"scripts", "devDependencies", "files", "release"}

// Manifest is the in-memory manifest document.
type Manifest struct {
	path string
	raw  []byte
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read manifest", goerr.V("path", path))
	}
	if !gjson.ValidBytes(raw) {
		return nil, goerr.New("manifest is not valid JSON", goerr.V("path", path))
	}
	m := &Manifest{path: path, raw: raw}
	if m.Name() == "" {
		return nil, goerr.New("manifest has no name field", goerr.V("path", path))
	}
	if m.Version() == "" {
		return nil, goerr.New("manifest has no version field", goerr.V("path", path))
	}
	return m, nil
}

// Path returns the manifest file location.
func (m *Manifest) Path() string { return m.path }

// Name returns the package name.
func (m *Manifest) Name() string {
	return gjson.GetBytes(m.raw, "name").String()
}

// Version returns the current package version.
func (m *Manifest) Version() string {
	return gjson.GetBytes(m.raw, "version").String()
}

// Private reports whether the package must never reach the registry.
func (m *Manifest) Private() bool {
	return gjson.GetBytes(m.raw, "private").Bool()
}

// Script returns the named script command, or empty if not declared.
func (m *Manifest) Script(name string) string {
	return gjson.GetBytes(m.raw, "scripts."+name).String()
}

// HasDevDependency reports whether name is declared as a dev dependency.
func (m *Manifest) HasDevDependency(name string) bool {
	return gjson.GetBytes(m.raw, "devDependencies").Get(escapeKey(name)).Exists()
}

// RepositoryURL returns the declared repository location: either the
// "repository" string itself or its "url" field.
func (m *Manifest) RepositoryURL() string {
	repo := gjson.GetBytes(m.raw, "repository")
	if repo.Type == gjson.String {
		return repo.String()
	}
	return repo.Get("url").String()
}

// ReleaseSettings reads the publishing configuration from the manifest's
// "release" object. Missing entries disable the corresponding target.
func (m *Manifest) ReleaseSettings() model.ReleaseSettings {
	rel := gjson.GetBytes(m.raw, "release")
	return model.ReleaseSettings{
		Dist: model.MirrorTarget{
			RepositoryURL: rel.Get("dist.repository").String(),
			SourceDir:     rel.Get("dist.sourceDir").String(),
			ScratchDir:    rel.Get("dist.scratchDir").String(),
			RegisterName:  rel.Get("dist.registerName").String(),
		},
		Docs: model.MirrorTarget{
			RepositoryURL: rel.Get("docs.repository").String(),
			SourceDir:     rel.Get("docs.sourceDir").String(),
			ScratchDir:    rel.Get("docs.scratchDir").String(),
		},
		PackageRoot: rel.Get("packageRoot").String(),
	}
}

// SetVersion replaces the version field in place, preserving the document's
// key order and formatting.
func (m *Manifest) SetVersion(version string) error {
	raw, err := sjson.SetBytes(m.raw, "version", version)
	if err != nil {
		return goerr.Wrap(err, "failed to set manifest version", goerr.V("version", version))
	}
	m.raw = raw
	return nil
}

// Bytes renders the manifest for writing back to disk: pretty-printed,
// newline-terminated.
func (m *Manifest) Bytes() []byte {
	return terminate([]byte(gjson.GetBytes(m.raw, "@pretty").String()))
}

// Trimmed renders the manifest minus build-only fields, for publishing from
// an alternate package root.
func (m *Manifest) Trimmed() ([]byte, error) {
	raw := m.raw
	for _, field := range trimmedFields {
		next, err := sjson.DeleteBytes(raw, field)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to trim manifest", goerr.V("field", field))
		}
		raw = next
	}
	return terminate([]byte(gjson.GetBytes(raw, "@pretty").String())), nil
}

// escapeKey protects dots in dependency names (scoped packages, domains) from
// being treated as gjson path separators.
func escapeKey(name string) string {
	return strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`).Replace(name)
}

func terminate(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] != '\n' {
		return append(b, '\n')
	}
	return b
}
