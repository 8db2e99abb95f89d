package mentor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/zenithlabs/zenith/internal/chat"
	"github.com/zenithlabs/zenith/internal/profile"
)

// fakeChatModel replays canned chunks for Stream and a canned message
// for Generate.
type fakeChatModel struct {
	chunks   []string
	generate string
	lastIn   []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.lastIn = in
	return schema.AssistantMessage(f.generate, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.lastIn = in
	msgs := make([]*schema.Message, len(f.chunks))
	for i, c := range f.chunks {
		msgs[i] = schema.AssistantMessage(c, nil)
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func (f *fakeChatModel) WithTools(_ []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return f, nil
}

func TestMentorReply(t *testing.T) {
	fake := &fakeChatModel{chunks: []string{"Stay ", "the ", "course."}}
	m := New(fake, &profile.Profile{Name: "Alex"}, nil, nil)

	var streamed strings.Builder
	reply, err := m.Reply(context.Background(), []chat.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}, "how do I focus?", func(chunk string) {
		streamed.WriteString(chunk)
	})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply != "Stay the course." {
		t.Errorf("reply: got %q", reply)
	}
	if streamed.String() != reply {
		t.Errorf("streamed %q, returned %q", streamed.String(), reply)
	}

	// system + 2 history + user
	if len(fake.lastIn) != 4 {
		t.Fatalf("message count: got %d", len(fake.lastIn))
	}
	if fake.lastIn[0].Role != schema.System ||
		!strings.Contains(fake.lastIn[0].Content, "Alex's council of titans") {
		t.Errorf("system prompt: %+v", fake.lastIn[0])
	}
	if fake.lastIn[3].Content != "how do I focus?" {
		t.Errorf("user message: %+v", fake.lastIn[3])
	}
}

func TestMotivationFromModel(t *testing.T) {
	fake := &fakeChatModel{generate: "```json\n{\"code\":\"SHIP-1\",\"text\":\"Ship it today.\"}\n```"}
	m := New(fake, &profile.Profile{}, nil, nil)

	got := m.Motivation(context.Background())
	if got.Code != "SHIP-1" || got.Text != "Ship it today." {
		t.Errorf("got %+v", got)
	}
}

func TestMotivationMalformedFallsBack(t *testing.T) {
	fake := &fakeChatModel{generate: "be great"}
	m := New(fake, &profile.Profile{}, nil, nil)

	got := m.Motivation(context.Background())
	if got.Code == "" || got.Text == "" {
		t.Errorf("fallback motivation empty: %+v", got)
	}
}

func TestLocalMotivationStableWithinMinute(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC)
	later := now.Add(40 * time.Second)
	if LocalMotivation(now) != LocalMotivation(later) {
		t.Error("same minute must yield the same motivation")
	}
}
