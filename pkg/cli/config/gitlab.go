package config

import (
	"log/slog"

	"github.com/secmon-lab/aiakos/pkg/service/gitlab"
	"github.com/urfave/cli/v3"
)

// GitLab holds CLI flags for the GitLab API configuration. Tokens are not
// configured here; every remote action uses the credential attached to the
// review it acts on.
type GitLab struct {
	baseURL string
}

// Flags returns CLI flags for GitLab configuration
func (x *GitLab) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gitlab-base-url",
			Usage:       "GitLab API base URL (for self-hosted instances)",
			Category:    "GitLab",
			Value:       gitlab.DefaultBaseURL,
			Sources:     cli.EnvVars("AIAKOS_GITLAB_BASE_URL"),
			Destination: &x.baseURL,
		},
	}
}

func (x GitLab) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base-url", x.baseURL),
	)
}

// Configure builds the GitLab service
func (x *GitLab) Configure() gitlab.Service {
	var opts []gitlab.Option
	if x.baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(x.baseURL))
	}
	return gitlab.New(opts...)
}
