package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/zenithlabs/zenith/internal/memory"
)

// NewMemoriesCommand returns the memories subcommand.
func NewMemoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "memories",
		Usage: "Manage what your mentor remembers about you",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List memories",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Filter by category: goal, challenge, insight, breakthrough, decision",
					},
				},
				Action: runMemoriesList,
			},
			{
				Name:      "add",
				Usage:     "Save a memory",
				ArgsUsage: "<content>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Memory category",
						Value: string(memory.CategoryInsight),
					},
				},
				Action: runMemoriesAdd,
			},
			{
				Name:      "search",
				Usage:     "Search memories",
				ArgsUsage: "<query>",
				Action:    runMemoriesSearch,
			},
			{
				Name:   "summary",
				Usage:  "Print the memory summary the mentor sees",
				Action: runMemoriesSummary,
			},
			{
				Name:      "forget",
				Usage:     "Delete a memory",
				ArgsUsage: "<memory_id>",
				Action:    runMemoriesForget,
			},
			{
				Name:  "export",
				Usage: "Export the memory bank to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file (default stdout)",
					},
					&cli.StringFlag{
						Name:  "passphrase",
						Usage: "Encrypt the export with this passphrase",
					},
				},
				Action: runMemoriesExport,
			},
			{
				Name:      "import",
				Usage:     "Import memories from an export file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "passphrase",
						Usage: "Passphrase for an encrypted export",
					},
				},
				Action: runMemoriesImport,
			},
			{
				Name:  "prune",
				Usage: "Delete memories older than the retention horizon",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Age threshold in days (default from config)",
					},
				},
				Action: runMemoriesPrune,
			},
		},
		DefaultCommand: "list",
	}
}

func printMemories(entries []*memory.Entry) error {
	if len(entries) == 0 {
		fmt.Println("No memories stored.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tCONTENT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.ID, e.Date.Format("2006-01-02"), e.Category, e.Content)
	}
	return w.Flush()
}

func runMemoriesList(_ context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	var entries []*memory.Entry
	if category := cmd.String("category"); category != "" {
		entries, err = stores.Memories.ByCategory(memory.Category(category), 100)
	} else {
		entries, err = stores.Memories.List()
	}
	if err != nil {
		return fmt.Errorf("list memories: %w", err)
	}
	return printMemories(entries)
}

func runMemoriesAdd(_ context.Context, cmd *cli.Command) error {
	content := cmd.Args().First()
	if content == "" {
		return fmt.Errorf("usage: zenith memories add <content>")
	}

	category := memory.Category(cmd.String("category"))
	if !memory.ValidCategory(category) {
		return fmt.Errorf("invalid category %q", category)
	}

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	entry, err := stores.Memories.Add(category, content, "saved from cli")
	if err != nil {
		return fmt.Errorf("save memory: %w", err)
	}
	fmt.Printf("Saved %s (%s)\n", entry.ID, entry.Category)
	return nil
}

func runMemoriesSearch(_ context.Context, cmd *cli.Command) error {
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("usage: zenith memories search <query>")
	}

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	entries, err := stores.Memories.Search(query, 20)
	if err != nil {
		return fmt.Errorf("search memories: %w", err)
	}
	return printMemories(entries)
}

func runMemoriesSummary(_ context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	summary, err := memory.Summary(stores.Memories)
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}
	if summary == "" {
		fmt.Println("Nothing remembered yet.")
		return nil
	}
	fmt.Println(summary)
	return nil
}

func runMemoriesForget(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: zenith memories forget <memory_id>")
	}

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	if err := stores.Memories.Delete(id); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	fmt.Printf("Forgot %s\n", id)
	return nil
}

func runMemoriesExport(_ context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	out := os.Stdout
	if path := cmd.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if passphrase := cmd.String("passphrase"); passphrase != "" {
		return memory.ExportEncrypted(stores.Memories, out, passphrase)
	}
	return memory.ExportJSON(stores.Memories, out)
}

func runMemoriesImport(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: zenith memories import <file>")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	cfg := loadConfig(cmd)
	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	var count int
	if passphrase := cmd.String("passphrase"); passphrase != "" {
		count, err = memory.ImportEncrypted(stores.Memories, f, passphrase)
	} else {
		count, err = memory.ImportJSON(stores.Memories, f)
	}
	if err != nil {
		return fmt.Errorf("import memories: %w", err)
	}
	fmt.Printf("Imported %d memories\n", count)
	return nil
}

func runMemoriesPrune(_ context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)

	days := cmd.Int("days")
	if days <= 0 {
		days = cfg.Memory.RetentionDays
	}
	if days <= 0 {
		return fmt.Errorf("no retention horizon: pass --days or set memory.retention_days")
	}

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	pruned, err := stores.Memories.PruneOlderThan(days)
	if err != nil {
		return fmt.Errorf("prune memories: %w", err)
	}
	fmt.Printf("Pruned %d memories older than %d days\n", pruned, days)
	return nil
}
