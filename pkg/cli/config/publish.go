package config

import "github.com/urfave/cli/v3"

// Publish holds credentials and endpoints for the optional publishing side
// channels. Every field is optional: absence disables the channel.
type Publish struct {
	// HostToken authenticates against the code-hosting releases API.
	HostToken string `masq:"secret"`
	// SlackWebhook receives the post-release notification.
	SlackWebhook string `masq:"secret"`
	// ArchiveBucket is the object-storage bucket release tarballs go to.
	ArchiveBucket string
}

// Flags returns CLI flags for publishing configuration
func (c *Publish) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "host-token",
			Usage:       "Access token for the code-hosting releases API",
			Destination: &c.HostToken,
			Sources:     cli.EnvVars("GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-webhook",
			Usage:       "Slack incoming webhook URL for release notifications",
			Destination: &c.SlackWebhook,
			Sources:     cli.EnvVars("BOSUN_SLACK_WEBHOOK"),
		},
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Object-storage bucket for release archives",
			Destination: &c.ArchiveBucket,
			Sources:     cli.EnvVars("BOSUN_ARCHIVE_BUCKET"),
		},
	}
}
