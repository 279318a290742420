package config

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack holds messaging platform configuration
type Slack struct {
	BotToken  string `masq:"secret"`
	ChannelID string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token",
			Required:    true,
			Destination: &c.BotToken,
			Sources:     cli.EnvVars("HERALD_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID for release notifications",
			Required:    true,
			Destination: &c.ChannelID,
			Sources:     cli.EnvVars("HERALD_SLACK_CHANNEL_ID"),
		},
	}
}

// Validate checks the configuration before the server binds
func (c *Slack) Validate() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return goerr.New("slack bot token must not be empty")
	}
	if strings.TrimSpace(c.ChannelID) == "" {
		return goerr.New("slack channel ID must not be empty")
	}
	return nil
}
