// Package commands defines the zenith CLI surface.
package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/zenithlabs/zenith/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "zenith",
		Usage: "Your personal AI mentor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			NewChatCommand(),
			NewGatewayCommand(),
			NewOnboardCommand(),
			NewTasksCommand(),
			NewHabitsCommand(),
			NewMemoriesCommand(),
			NewSessionsCommand(),
			NewMotivateCommand(),
			NewStatusCommand(),
		},
	}
}
