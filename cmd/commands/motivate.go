package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zenithlabs/zenith/internal/mentor"
)

// NewMotivateCommand returns the motivate subcommand.
func NewMotivateCommand() *cli.Command {
	return &cli.Command{
		Name:  "motivate",
		Usage: "Print a motivational nudge",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Skip the model, use the built-in rotation",
			},
		},
		Action: runMotivate,
	}
}

func runMotivate(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)

	if cmd.Bool("local") {
		fmt.Println(mentor.LocalMotivation(time.Now()).Text)
		return nil
	}

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	m, _, err := buildMentor(ctx, cfg, stores.Memories)
	if err != nil {
		// No usable model is not fatal here, the curated list still works.
		fmt.Println(mentor.LocalMotivation(time.Now()).Text)
		return nil
	}

	fmt.Println(m.Motivation(ctx).Text)
	return nil
}
