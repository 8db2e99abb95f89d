package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zenithlabs/zenith/internal/config"
	"github.com/zenithlabs/zenith/internal/models"
	"github.com/zenithlabs/zenith/internal/sessions"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show Zenith status",
		Action: runStatus,
	}
}

func runStatus(_ context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)

	fmt.Printf("Data dir: %s\n", config.ZenithPath())

	registry := models.NewRegistry(cfg.Models)
	if names := registry.Names(); len(names) > 0 {
		fmt.Printf("Models:   %s (default: %s)\n", strings.Join(names, ", "), registry.DefaultName())
	} else {
		fmt.Println("Models:   none configured")
	}

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	open, err := stores.Tasks.ListOpen()
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	habitList, err := stores.Habits.List()
	if err != nil {
		return fmt.Errorf("list habits: %w", err)
	}
	memoryList, err := stores.Memories.List()
	if err != nil {
		return fmt.Errorf("list memories: %w", err)
	}
	sessionList, err := sessions.NewFileStore(config.SessionsPath()).List()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	fmt.Printf("Open tasks: %d  Habits: %d  Memories: %d  Sessions: %d\n",
		len(open), len(habitList), len(memoryList), len(sessionList))

	// A quick health probe tells us whether a gateway is running.
	url := fmt.Sprintf("http://%s:%d/api/health", cfg.Gateway.Host, cfg.Gateway.Port)
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Println("Gateway: NOT RUNNING")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		fmt.Printf("Gateway: ALIVE (%s:%d)\n", cfg.Gateway.Host, cfg.Gateway.Port)
	} else {
		fmt.Printf("Gateway: UNHEALTHY (status %d)\n", resp.StatusCode)
	}
	return nil
}
