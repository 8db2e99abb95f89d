package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/zenithlabs/zenith/internal/config"
	"github.com/zenithlabs/zenith/internal/profile"
)

// NewOnboardCommand returns the onboard subcommand, which fills in the
// user profile the mentor persona is built from.
func NewOnboardCommand() *cli.Command {
	return &cli.Command{
		Name:   "onboard",
		Usage:  "Tell your mentor who you are",
		Action: runOnboard,
	}
}

func runOnboard(_ context.Context, _ *cli.Command) error {
	p, err := profile.Load(config.ProfilePath())
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Let's set up your mentor. Press enter to keep a current value.")
	fmt.Println()

	if name := ask(scanner, "What should your mentor call you?", p.Name); name != "" {
		p.Name = name
	}

	if goals := askList(scanner, "Your top goals (comma separated)?", p.Goals); goals != nil {
		p.Goals = goals
	}

	if challenges := askList(scanner, "What are you struggling with right now (comma separated)?", p.Challenges); challenges != nil {
		p.Challenges = challenges
	}

	fmt.Println("Who do you look up to? One per line as `Name: why`. Empty line to finish.")
	var roleModels []profile.RoleModel
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		name, reason, _ := strings.Cut(line, ":")
		roleModels = append(roleModels, profile.RoleModel{
			Name:   strings.TrimSpace(name),
			Reason: strings.TrimSpace(reason),
		})
	}
	if roleModels != nil {
		p.RoleModels = roleModels
	}

	if style := ask(scanner, "How should your mentor talk to you? (e.g. direct, gentle, socratic)", p.CommunicationStyle); style != "" {
		p.CommunicationStyle = style
	}

	p.OnboardingComplete = true
	if err := profile.Save(config.ProfilePath(), p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	fmt.Printf("\nAll set, %s. Run `zenith chat` to start.\n", p.DisplayName())
	return nil
}

func ask(scanner *bufio.Scanner, question, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]\n> ", question, current)
	} else {
		fmt.Printf("%s\n> ", question)
	}
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func askList(scanner *bufio.Scanner, question string, current []string) []string {
	answer := ask(scanner, question, strings.Join(current, ", "))
	if answer == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(answer, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
