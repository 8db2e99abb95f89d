package mentor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/zenithlabs/zenith/internal/chat"
	"github.com/zenithlabs/zenith/internal/memory"
	"github.com/zenithlabs/zenith/internal/models"
	"github.com/zenithlabs/zenith/internal/profile"
)

// Mentor wraps a chat model with the persona prompt and memory context.
// It implements chat.Transport.
type Mentor struct {
	model    model.ToolCallingChatModel
	profile  *profile.Profile
	memories memory.Store
	log      *slog.Logger
}

// New creates a Mentor. memories may be nil, in which case no memory
// context is injected into the prompt.
func New(m model.ToolCallingChatModel, p *profile.Profile, memories memory.Store, logger *slog.Logger) *Mentor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mentor{model: m, profile: p, memories: memories, log: logger}
}

// Reply streams the mentor's answer to userMessage given the prior
// transcript. The full reply is returned after the stream drains.
func (m *Mentor) Reply(ctx context.Context, history []chat.Message, userMessage string, onDelta func(chunk string)) (string, error) {
	msgs := make([]*schema.Message, 0, len(history)+2)
	msgs = append(msgs, schema.SystemMessage(m.systemPrompt()))
	for _, h := range history {
		msgs = append(msgs, &schema.Message{Role: schema.RoleType(h.Role), Content: h.Content})
	}
	msgs = append(msgs, schema.UserMessage(userMessage))

	stream, err := m.model.Stream(ctx, msgs)
	if err != nil {
		return "", models.HandleError(err)
	}
	defer stream.Close()

	var b strings.Builder
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", models.HandleError(err)
		}
		if chunk != nil && chunk.Content != "" {
			b.WriteString(chunk.Content)
			if onDelta != nil {
				onDelta(chunk.Content)
			}
		}
	}
	return b.String(), nil
}

func (m *Mentor) systemPrompt() string {
	memoryContext := ""
	if m.memories != nil {
		summary, err := memory.Summary(m.memories)
		if err != nil {
			m.log.Warn("memory summary failed", "error", err)
		} else {
			memoryContext = summary
		}
	}
	return BuildSystemPrompt(m.profile, memoryContext)
}

var _ chat.Transport = (*Mentor)(nil)

// Generate produces a single non-streamed completion with the mentor
// persona, used for one-shot jobs like the daily motivation.
func (m *Mentor) Generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	out, err := m.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userMessage),
	})
	if err != nil {
		return "", models.HandleError(err)
	}
	if out == nil {
		return "", fmt.Errorf("empty completion")
	}
	return out.Content, nil
}
