package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/zenithlabs/zenith/internal/chat"
	"github.com/zenithlabs/zenith/internal/config"
	"github.com/zenithlabs/zenith/internal/sessions"
)

// NewChatCommand returns the chat subcommand, an interactive REPL with
// the mentor.
func NewChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Talk with your mentor",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Disable markdown rendering",
			},
		},
		Action: runChat,
	}
}

func runChat(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	m, p, err := buildMentor(ctx, cfg, stores.Memories)
	if err != nil {
		return err
	}
	if !p.OnboardingComplete {
		fmt.Println("Tip: run `zenith onboard` so your mentor knows who it's talking to.")
	}

	sessionStore := sessions.NewFileStore(config.SessionsPath())
	session, err := sessionStore.Create()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	engine := chat.NewEngine(chat.Options{
		Tasks:     stores.Tasks,
		Memories:  stores.Memories,
		Transport: m,
		AutoSave:  cfg.Memory.AutoSave,
		SessionID: session.ID,
	})

	render := newRenderer(cmd.Bool("plain"))

	fmt.Printf("Zenith session %s. Type /quit to leave.\n", session.ID)
	fmt.Printf("%s\n\n", p.Greeting(time.Now()))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			break
		}

		reply, err := engine.Turn(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mentor unavailable: %v\n", err)
			continue
		}

		sessionStore.AppendMessage(session.ID, sessions.NewMessage("user", input))
		if reply != "" {
			sessionStore.AppendMessage(session.ID, sessions.NewMessage("assistant", reply))
			fmt.Println(render(reply))
		}
	}

	if err := sessionStore.Close(session.ID); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	fmt.Println("Until next time.")
	return scanner.Err()
}

// newRenderer returns a markdown renderer for terminal output, or a
// pass-through when stdout is not a terminal.
func newRenderer(plain bool) func(string) string {
	fd := int(os.Stdout.Fd())
	if plain || !term.IsTerminal(fd) {
		return func(s string) string { return s }
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 || width > 120 {
		width = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return func(s string) string { return s }
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return strings.TrimRight(out, "\n")
	}
}
