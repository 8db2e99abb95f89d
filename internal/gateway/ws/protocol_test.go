package ws

import (
	"encoding/json"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	params, _ := json.Marshal(map[string]string{"content": "hello"})
	in := Frame{
		Type:   FrameTypeRequest,
		ID:     "req-1",
		Method: string(MethodSendMessage),
		Params: params,
	}

	data, err := MarshalFrame(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, err := UnmarshalFrame(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Type != FrameTypeRequest || out.ID != "req-1" || out.Method != "send_message" {
		t.Errorf("got %+v", out)
	}
}

func TestNewResponseFrame(t *testing.T) {
	f, err := NewResponseFrame("req-2", true, map[string]string{"reply": "done"}, "")
	if err != nil {
		t.Fatalf("response frame: %v", err)
	}
	if f.Type != FrameTypeResponse || f.OK == nil || !*f.OK {
		t.Errorf("got %+v", f)
	}

	var payload map[string]string
	if err := json.Unmarshal(f.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["reply"] != "done" {
		t.Errorf("payload: %v", payload)
	}
}

func TestNewResponseFrame_Error(t *testing.T) {
	f, err := NewResponseFrame("req-3", false, nil, "no open session")
	if err != nil {
		t.Fatalf("response frame: %v", err)
	}
	if *f.OK || f.Error != "no open session" || f.Payload != nil {
		t.Errorf("got %+v", f)
	}
}

func TestNewEventFrame(t *testing.T) {
	f, err := NewEventFrame("assistant.message", "sess_ab12", map[string]string{"content": "hi"})
	if err != nil {
		t.Fatalf("event frame: %v", err)
	}
	if f.Type != FrameTypeEvent || f.Event != "assistant.message" || f.SessionID != "sess_ab12" {
		t.Errorf("got %+v", f)
	}
}

func TestUnmarshalFrame_Invalid(t *testing.T) {
	if _, err := UnmarshalFrame([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
