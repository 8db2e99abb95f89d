package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zenithlabs/zenith/internal/tasks"
)

// NewTasksCommand returns the tasks subcommand.
func NewTasksCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Manage your tasks",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tasks",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Only show open tasks",
					},
				},
				Action: runTasksList,
			},
			{
				Name:      "add",
				Usage:     "Add a task",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "priority",
						Usage: "Task priority: low, normal, high",
						Value: string(tasks.PriorityNormal),
					},
					&cli.StringFlag{
						Name:  "due",
						Usage: "Deadline as YYYY-MM-DD",
					},
				},
				Action: runTasksAdd,
			},
			{
				Name:      "done",
				Usage:     "Mark a task completed",
				ArgsUsage: "<task_id>",
				Action:    runTasksDone,
			},
			{
				Name:      "rm",
				Usage:     "Delete a task",
				ArgsUsage: "<task_id>",
				Action:    runTasksRemove,
			},
			{
				Name:      "detect",
				Usage:     "Extract task candidates from free-form text",
				ArgsUsage: "<text>",
				Action:    runTasksDetect,
			},
		},
		DefaultCommand: "list",
	}
}

func runTasksList(_ context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	var list []*tasks.Task
	if cmd.Bool("open") {
		list, err = stores.Tasks.ListOpen()
	} else {
		list, err = stores.Tasks.List()
	}
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No tasks. Enjoy the calm.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range list {
		status := "open"
		if t.Completed {
			status = "done"
		}
		due := "-"
		if t.Deadline != nil {
			due = t.Deadline.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, status, t.Priority, due, t.Title)
	}
	return w.Flush()
}

func runTasksAdd(_ context.Context, cmd *cli.Command) error {
	title := cmd.Args().First()
	if title == "" {
		return fmt.Errorf("usage: zenith tasks add <title>")
	}

	priority := tasks.Priority(cmd.String("priority"))
	if !tasks.ValidPriority(priority) {
		return fmt.Errorf("invalid priority %q", priority)
	}

	t := &tasks.Task{Title: title, Priority: priority}
	if due := cmd.String("due"); due != "" {
		deadline, err := time.ParseInLocation("2006-01-02", due, time.Local)
		if err != nil {
			return fmt.Errorf("invalid deadline %q: %w", due, err)
		}
		t.Deadline = &deadline
	}

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	if err := stores.Tasks.Create(t); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	fmt.Printf("Added %s: %s\n", t.ID, t.Title)
	return nil
}

func runTasksDone(_ context.Context, cmd *cli.Command) error {
	taskID := cmd.Args().First()
	if taskID == "" {
		return fmt.Errorf("usage: zenith tasks done <task_id>")
	}

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	if err := stores.Tasks.SetCompleted(taskID, true); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	fmt.Printf("Completed %s\n", taskID)
	return nil
}

func runTasksRemove(_ context.Context, cmd *cli.Command) error {
	taskID := cmd.Args().First()
	if taskID == "" {
		return fmt.Errorf("usage: zenith tasks rm <task_id>")
	}

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	if err := stores.Tasks.Delete(taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	fmt.Printf("Deleted %s\n", taskID)
	return nil
}

func runTasksDetect(_ context.Context, cmd *cli.Command) error {
	text := cmd.Args().First()
	if text == "" {
		return fmt.Errorf("usage: zenith tasks detect <text>")
	}

	detected := tasks.DetectTasks(text)
	if len(detected) == 0 {
		fmt.Println("Nothing actionable found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRIORITY\tTITLE")
	for _, d := range detected {
		fmt.Fprintf(w, "%s\t%s\n", d.Priority, d.Title)
	}
	return w.Flush()
}
