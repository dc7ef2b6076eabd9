package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bosun/pkg/cli/config"
	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
	"github.com/m-mizutani/bosun/pkg/domain/model"
	"github.com/m-mizutani/bosun/pkg/domain/types"
	execinfra "github.com/m-mizutani/bosun/pkg/infra/exec"
	gitinfra "github.com/m-mizutani/bosun/pkg/infra/git"
	githubinfra "github.com/m-mizutani/bosun/pkg/infra/github"
	"github.com/m-mizutani/bosun/pkg/infra/manifest"
	slackinfra "github.com/m-mizutani/bosun/pkg/infra/slack"
	storageinfra "github.com/m-mizutani/bosun/pkg/infra/storage"
	"github.com/m-mizutani/bosun/pkg/usecase"
)

func cmdRelease() *cli.Command {
	var (
		publishCfg config.Publish
		releaseCfg model.ReleaseConfig
		dryRun     bool
		forceRun   bool
	)

	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:        "preid",
			Usage:       "Pre-release identifier (e.g. beta)",
			Destination: &releaseCfg.Preid,
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Registry distribution tag",
			Destination: &releaseCfg.RegistryTag,
		},
		&cli.StringFlag{
			Name:        "notes",
			Usage:       "Free-text release notes appended to the changelog title",
			Destination: &releaseCfg.Notes,
		},
		&cli.BoolFlag{
			Name:        "docs",
			Aliases:     []string{"only-docs"},
			Usage:       "Documentation-only release (skips registry and distribution publishing)",
			Destination: &releaseCfg.DocsOnly,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Aliases:     []string{"n"},
			Usage:       "Print the command plan without mutating any state",
			Destination: &dryRun,
		},
		&cli.BoolFlag{
			Name:        "run",
			Usage:       "Force execution (overrides --dry-run)",
			Destination: &forceRun,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "Echo every executed command",
			Destination: &releaseCfg.Verbose,
		},
		&cli.BoolFlag{
			Name:        "skip-tests",
			Usage:       "Skip the test stage",
			Destination: &releaseCfg.SkipTests,
		},
		&cli.BoolFlag{
			Name:        "skip-build",
			Usage:       "Skip the build stage",
			Destination: &releaseCfg.SkipBuild,
		},
		&cli.BoolFlag{
			Name:        "skip-version-bumping",
			Usage:       "Reuse the current version without bumping",
			Destination: &releaseCfg.SkipVersionBump,
		},
	}, publishCfg.Flags()...)

	return &cli.Command{
		Name:      "release",
		Aliases:   []string{"r"},
		Usage:     "Run one release start to finish",
		ArgsUsage: "[patch|minor|major|<version>]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			releaseCfg.Bump = c.Args().First()
			if releaseCfg.Bump == "" && releaseCfg.Preid == "" &&
				!releaseCfg.SkipVersionBump && !releaseCfg.DocsOnly {
				_ = cli.ShowSubcommandHelp(c)
				return goerr.New("must specify a version bump or a pre-release identifier",
					goerr.T(types.ErrTagUsage))
			}

			mode := model.Live
			if dryRun && !forceRun {
				mode = model.DryRun
			}

			mf, err := manifest.Load(types.ManifestFile)
			if err != nil {
				return err
			}

			gw := execinfra.New(mode, execinfra.WithVerbose(releaseCfg.Verbose))
			gitClient := gitinfra.New(gw)

			var host interfaces.HostClient
			if publishCfg.HostToken != "" {
				host = githubinfra.NewClient(publishCfg.HostToken)
			} else {
				logger.Debug("host release publishing disabled: no token")
			}
			var notifier interfaces.Notifier
			if publishCfg.SlackWebhook != "" {
				notifier = slackinfra.NewNotifier(publishCfg.SlackWebhook)
			}
			var uploader interfaces.Uploader
			if publishCfg.ArchiveBucket != "" {
				uploader = storageinfra.NewUploader(publishCfg.ArchiveBucket)
			}

			orchestrator := usecase.NewOrchestrator(gw, gitClient, mf, host, uploader, notifier)
			return orchestrator.Run(ctx, releaseCfg)
		},
	}
}
