package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zenithlabs/zenith/internal/chat"
	"github.com/zenithlabs/zenith/internal/config"
	"github.com/zenithlabs/zenith/internal/events"
	"github.com/zenithlabs/zenith/internal/gateway"
	"github.com/zenithlabs/zenith/internal/gateway/ws"
	"github.com/zenithlabs/zenith/internal/scheduler"
	"github.com/zenithlabs/zenith/internal/sessions"
)

// NewGatewayCommand returns the gateway subcommand.
func NewGatewayCommand() *cli.Command {
	return &cli.Command{
		Name:  "gateway",
		Usage: "Start the Zenith gateway server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runGateway,
	}
}

func runGateway(_ context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = cmd.Int("port")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	m, _, err := buildMentor(ctx, cfg, stores.Memories)
	if err != nil {
		return fmt.Errorf("init mentor: %w", err)
	}

	sessionStore := sessions.NewFileStore(config.SessionsPath())

	factory := func(sessionID string, authed func() bool) *chat.Engine {
		return chat.NewEngine(chat.Options{
			Tasks:         stores.Tasks,
			Memories:      stores.Memories,
			Transport:     m,
			Bus:           bus,
			Authenticated: authed,
			AutoSave:      cfg.Memory.AutoSave,
			SessionID:     sessionID,
		})
	}

	server := gateway.NewServer(bus, gateway.Stores{
		Sessions: sessionStore,
		Tasks:    stores.Tasks,
		Habits:   stores.Habits,
		Memories: stores.Memories,
	}, ws.EngineFactory(factory), cfg.Gateway.Host, cfg.Gateway.Port, cfg.Gateway.AuthToken)

	sched := scheduler.New()
	if cron := cfg.Mentor.MotivationCron; cron != "" {
		if err := sched.Add("motivation", cron, scheduler.MotivationJob(bus, m)); err != nil {
			return fmt.Errorf("schedule motivation: %w", err)
		}
	}
	sched.Start(ctx)
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
