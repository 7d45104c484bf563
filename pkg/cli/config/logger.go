package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Logger holds CLI flags for logging configuration
type Logger struct {
	level  string
	format string
}

// Flags returns CLI flags for logger configuration
func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Sources:     cli.EnvVars("AIAKOS_LOG_LEVEL"),
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console or json)",
			Category:    "Logging",
			Value:       "console",
			Sources:     cli.EnvVars("AIAKOS_LOG_FORMAT"),
			Destination: &x.format,
		},
	}
}

func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
	)
}

// Configure builds the process-wide logger from the flags and installs it as
// the default. The returned closer is a no-op today but keeps the call site
// symmetric with other Configure methods that hold resources.
func (x *Logger) Configure() (func(), error) {
	level, err := logging.ParseLevel(x.level)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse log level")
	}

	format, err := logging.ParseFormat(x.format)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse log format")
	}

	logging.SetDefault(logging.New(os.Stdout, level, format))

	return func() {}, nil
}
