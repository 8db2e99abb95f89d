package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zenithlabs/zenith/internal/habits"
)

// NewHabitsCommand returns the habits subcommand.
func NewHabitsCommand() *cli.Command {
	return &cli.Command{
		Name:  "habits",
		Usage: "Track daily habits",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List habits with streaks",
				Action: runHabitsList,
			},
			{
				Name:      "add",
				Usage:     "Add a habit",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "description",
						Usage: "What this habit is about",
					},
					&cli.StringFlag{
						Name:  "color",
						Usage: "Display color hint",
					},
				},
				Action: runHabitsAdd,
			},
			{
				Name:      "check",
				Usage:     "Toggle today's check for a habit",
				ArgsUsage: "<habit_id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "date",
						Usage: "Day to toggle as YYYY-MM-DD (default today)",
					},
				},
				Action: runHabitsCheck,
			},
			{
				Name:      "rm",
				Usage:     "Delete a habit and its history",
				ArgsUsage: "<habit_id>",
				Action:    runHabitsRemove,
			},
		},
		DefaultCommand: "list",
	}
}

func runHabitsList(_ context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	list, err := stores.Habits.List()
	if err != nil {
		return fmt.Errorf("list habits: %w", err)
	}
	if len(list) == 0 {
		fmt.Println("No habits yet. Start small: `zenith habits add \"journal\"`.")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTREAK\tBEST\tWEEK\tTITLE")
	for _, h := range list {
		checks, err := stores.Habits.Checks(h.ID)
		if err != nil {
			return fmt.Errorf("load checks for %s: %w", h.ID, err)
		}
		stats := habits.ComputeStats(checks, now)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\t%s\n",
			h.ID, stats.CurrentStreak, stats.LongestStreak, stats.WeeklyRate*100, h.Title)
	}
	return w.Flush()
}

func runHabitsAdd(_ context.Context, cmd *cli.Command) error {
	title := cmd.Args().First()
	if title == "" {
		return fmt.Errorf("usage: zenith habits add <title>")
	}

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	h := &habits.Habit{
		Title:       title,
		Description: cmd.String("description"),
		Color:       cmd.String("color"),
	}
	if err := stores.Habits.Create(h); err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	fmt.Printf("Added %s: %s\n", h.ID, h.Title)
	return nil
}

func runHabitsCheck(_ context.Context, cmd *cli.Command) error {
	habitID := cmd.Args().First()
	if habitID == "" {
		return fmt.Errorf("usage: zenith habits check <habit_id>")
	}

	date := cmd.String("date")
	if date == "" {
		date = habits.DateKey(time.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	checked, err := stores.Habits.ToggleCheck(habitID, date)
	if err != nil {
		return fmt.Errorf("toggle check: %w", err)
	}
	if checked {
		fmt.Printf("Checked %s for %s. Keep it going!\n", habitID, date)
	} else {
		fmt.Printf("Unchecked %s for %s.\n", habitID, date)
	}
	return nil
}

func runHabitsRemove(_ context.Context, cmd *cli.Command) error {
	habitID := cmd.Args().First()
	if habitID == "" {
		return fmt.Errorf("usage: zenith habits rm <habit_id>")
	}

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	if err := stores.Habits.Delete(habitID); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	fmt.Printf("Deleted %s\n", habitID)
	return nil
}
