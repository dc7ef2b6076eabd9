package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
	"github.com/m-mizutani/bosun/pkg/domain/model"
	"github.com/m-mizutani/bosun/pkg/domain/types"
	"github.com/m-mizutani/bosun/pkg/infra/github"
	"github.com/m-mizutani/bosun/pkg/infra/manifest"
)

// RegistryPublisher publishes the package to the primary registry and, as
// best-effort side channels, to the host releases API, the package index, and
// an artifact archive bucket.
type RegistryPublisher struct {
	gw       interfaces.Gateway
	mf       *manifest.Manifest
	host     interfaces.HostClient // nil when no token is configured
	uploader interfaces.Uploader   // nil when no bucket is configured
}

// NewRegistryPublisher creates the publisher. host and uploader may be nil,
// which disables the corresponding side channel.
func NewRegistryPublisher(gw interfaces.Gateway, mf *manifest.Manifest, host interfaces.HostClient, uploader interfaces.Uploader) *RegistryPublisher {
	return &RegistryPublisher{gw: gw, mf: mf, host: host, uploader: uploader}
}

// PublishToRegistry runs the registry publish command. Private packages are
// skipped, never published. When an alternate package root is configured, a
// trimmed manifest is written there first and the publish runs from within it.
func (p *RegistryPublisher) PublishToRegistry(ctx context.Context, rc *model.ReleaseContext, settings model.ReleaseSettings) error {
	logger := ctxlog.From(ctx)

	if p.mf.Private() {
		logger.Info("registry publish skipped: package is private")
		return nil
	}

	dir := ""
	if settings.PackageRoot != "" {
		trimmed, err := p.mf.Trimmed()
		if err != nil {
			return err
		}
		manifestPath := filepath.Join(settings.PackageRoot, types.ManifestFile)
		if err := p.gw.WriteFileSafely(ctx, manifestPath, trimmed); err != nil {
			return err
		}
		dir = settings.PackageRoot
	}

	args := []string{"publish"}
	if tag := p.distTag(rc); tag != "" {
		args = append(args, "--tag", tag)
	}
	if _, err := p.gw.RunSafely(ctx, model.Command{
		Program: types.RegistryCommand,
		Args:    args,
		Dir:     dir,
	}); err != nil {
		return err
	}

	logger.Info("published to registry", "version", rc.Version.New)
	return nil
}

// distTag picks the registry distribution tag: an explicit --tag wins, a
// pre-release identifier is used as the tag otherwise, and the registry
// default applies when neither is set.
func (p *RegistryPublisher) distTag(rc *model.ReleaseContext) string {
	if rc.Config.RegistryTag != "" {
		return rc.Config.RegistryTag
	}
	return rc.Config.EffectivePreid(types.DocsPreid)
}

// PublishToHost creates the hosted release page. Every failure here is a
// warning: publishing code artifacts is never blocked by a secondary
// notification failure.
func (p *RegistryPublisher) PublishToHost(ctx context.Context, rc *model.ReleaseContext) {
	logger := ctxlog.From(ctx)

	if p.host == nil {
		logger.Debug("host release skipped: no access token configured")
		return
	}

	owner, repo := github.ParseOwnerRepo(p.mf.RepositoryURL())
	body := rc.Notes
	if body == "" {
		body = rc.Version.Tag
	}
	release := &model.HostRelease{
		TagName:    rc.Version.Tag,
		Name:       rc.Version.Tag,
		Body:       body,
		Prerelease: rc.Version.IsPrerelease(),
	}

	err := p.gw.DoSafely(ctx, fmt.Sprintf("create host release %s for %s/%s", rc.Version.Tag, owner, repo), func() error {
		return p.host.CreateRelease(ctx, owner, repo, release)
	})
	if err != nil {
		logger.Warn("host release failed", "error", err, "tag", rc.Version.Tag)
		return
	}
	logger.Info("host release created", "tag", rc.Version.Tag)
}

// RegisterIndex registers the package name with the package index after the
// distribution mirror is published. Best-effort.
func (p *RegistryPublisher) RegisterIndex(ctx context.Context, target model.MirrorTarget) {
	logger := ctxlog.From(ctx)

	if target.RegisterName == "" {
		return
	}
	if _, err := p.gw.RunSafely(ctx, model.Command{
		Program: types.IndexCommand,
		Args:    []string{"register", target.RegisterName, target.RepositoryURL},
	}); err != nil {
		logger.Warn("package index registration failed",
			"name", target.RegisterName, "error", err)
		return
	}
	logger.Info("package registered with index", "name", target.RegisterName)
}

// UploadArchive packs the release tarball and uploads it to the configured
// bucket. Best-effort.
func (p *RegistryPublisher) UploadArchive(ctx context.Context, rc *model.ReleaseContext) {
	logger := ctxlog.From(ctx)

	if p.uploader == nil {
		return
	}

	out, err := p.gw.RunSafely(ctx, model.Command{
		Program: types.RegistryCommand,
		Args:    []string{"pack"},
	})
	if err != nil {
		logger.Warn("failed to pack release archive", "error", err)
		return
	}

	tarball := lastLine(out)
	if tarball == "" {
		// Dry-run produces no output; the pack command's naming scheme is
		// deterministic.
		tarball = fmt.Sprintf("%s-%s.tgz", strings.TrimPrefix(p.mf.Name(), "@"), rc.Version.New)
	}
	object := p.mf.Name() + "/" + tarball

	err = p.gw.DoSafely(ctx, "upload archive "+object, func() error {
		return p.uploader.Upload(ctx, object, tarball)
	})
	if err != nil {
		logger.Warn("archive upload failed", "object", object, "error", err)
		return
	}
	logger.Info("release archive uploaded", "object", object)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
