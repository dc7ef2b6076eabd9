package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
	"github.com/m-mizutani/bosun/pkg/domain/model"
	"github.com/m-mizutani/bosun/pkg/domain/types"
	"github.com/m-mizutani/bosun/pkg/infra/git"
	"github.com/m-mizutani/bosun/pkg/infra/manifest"
	"github.com/m-mizutani/bosun/pkg/utils/async"
)

// Orchestrator sequences the whole release pipeline against a single mutable
// ReleaseContext. Stages run strictly one after another: each depends on the
// repository state the previous one left behind.
type Orchestrator struct {
	gw        interfaces.Gateway
	git       *git.Client
	mf        *manifest.Manifest
	preflight *Preflight
	gate      *BuildTestGate
	changelog *ChangelogStage
	mirror    *MirrorPublisher
	registry  *RegistryPublisher
	notifier  interfaces.Notifier // nil when not configured
	settings  model.ReleaseSettings
}

// NewOrchestrator wires the pipeline. notifier may be nil.
func NewOrchestrator(
	gw interfaces.Gateway,
	gitClient *git.Client,
	mf *manifest.Manifest,
	host interfaces.HostClient,
	uploader interfaces.Uploader,
	notifier interfaces.Notifier,
) interfaces.ReleaseUseCase {
	return &Orchestrator{
		gw:        gw,
		git:       gitClient,
		mf:        mf,
		preflight: NewPreflight(gitClient),
		gate:      NewBuildTestGate(gw, gitClient, mf),
		changelog: NewChangelogStage(gw, gitClient, ChangelogCapability(mf)),
		mirror:    NewMirrorPublisher(gw, gitClient),
		registry:  NewRegistryPublisher(gw, mf, host, uploader),
		notifier:  notifier,
		settings:  mf.ReleaseSettings(),
	}
}

// Run executes one release invocation start to finish. Every step aborts the
// run on error except the best-effort side channels (host release, package
// index, archive upload, notification).
func (o *Orchestrator) Run(ctx context.Context, cfg model.ReleaseConfig) error {
	logger := ctxlog.From(ctx).With("release_id", uuid.NewString())
	ctx = ctxlog.With(ctx, logger)

	logger.Info("starting release",
		"package", o.mf.Name(),
		"mode", o.gw.Mode().String(),
		"docs_only", cfg.DocsOnly,
	)

	if err := o.preflight.Check(ctx); err != nil {
		return err
	}

	rc := &model.ReleaseContext{Config: cfg}
	if err := o.resolveVersion(ctx, rc); err != nil {
		return err
	}

	if err := o.gate.Run(ctx, rc); err != nil {
		return err
	}
	if err := o.changelog.Generate(ctx, rc); err != nil {
		return err
	}

	if err := o.commitAndPush(ctx, rc); err != nil {
		return err
	}

	if !cfg.DocsOnly {
		// Fire-and-forget: the host release result is only ever logged
		// and the process may exit before the response arrives.
		async.Dispatch(ctx, func(ctx context.Context) error {
			o.registry.PublishToHost(ctx, rc)
			return nil
		})

		if err := o.registry.PublishToRegistry(ctx, rc, o.settings); err != nil {
			return err
		}
		if o.settings.Dist.Enabled() {
			if err := o.mirror.Mirror(ctx, o.settings.Dist, rc.Version.Tag); err != nil {
				return err
			}
			o.registry.RegisterIndex(ctx, o.settings.Dist)
		}
		o.registry.UploadArchive(ctx, rc)
	}

	if !o.mf.Private() && !rc.Version.IsPrerelease() && o.settings.Docs.Enabled() {
		if err := o.mirror.Mirror(ctx, o.settings.Docs, rc.Version.Tag); err != nil {
			return err
		}
	}

	o.notify(ctx, rc)

	logger.Info("release complete",
		"old_version", rc.Version.Old,
		"new_version", rc.Version.New,
		"tag", rc.Version.Tag,
	)
	return nil
}

// resolveVersion computes the new version, persists it into the manifest and
// stages the change. With --skip-version-bump the current version is reused
// verbatim and nothing is written.
func (o *Orchestrator) resolveVersion(ctx context.Context, rc *model.ReleaseContext) error {
	logger := ctxlog.From(ctx)
	current := o.mf.Version()

	if rc.Config.SkipVersionBump {
		rc.Version = model.NewVersionInfo(current, current)
		logger.Info("version bump skipped, version unchanged", "version", current)
		return nil
	}

	next, err := ResolveVersion(current, rc.Config.Bump, rc.Config.EffectivePreid(types.DocsPreid))
	if err != nil {
		return err
	}
	rc.Version = model.NewVersionInfo(current, next)
	logger.Info("resolved version", "old", current, "new", next, "tag", rc.Version.Tag)

	if err := o.mf.SetVersion(next); err != nil {
		return err
	}
	if err := o.gw.WriteFileSafely(ctx, o.mf.Path(), o.mf.Bytes()); err != nil {
		return err
	}
	return o.git.Add(ctx, "", o.mf.Path())
}

func (o *Orchestrator) commitAndPush(ctx context.Context, rc *model.ReleaseContext) error {
	if err := o.git.Commit(ctx, "", rc.Version.Tag); err != nil {
		return err
	}

	tagMessage := rc.Notes
	if tagMessage == "" {
		tagMessage = rc.Version.Tag
	}
	if err := o.git.Tag(ctx, "", rc.Version.Tag, tagMessage); err != nil {
		return err
	}
	return o.git.PushFollowTags(ctx, "")
}

func (o *Orchestrator) notify(ctx context.Context, rc *model.ReleaseContext) {
	logger := ctxlog.From(ctx)
	if o.notifier == nil {
		return
	}
	text := o.mf.Name() + " " + rc.Version.Tag + " released"
	err := o.gw.DoSafely(ctx, "notify: "+text, func() error {
		return o.notifier.Notify(ctx, text)
	})
	if err != nil {
		logger.Warn("release notification failed", "error", err)
	}
}
