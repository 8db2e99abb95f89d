package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/zenithlabs/zenith/internal/chat"
	"github.com/zenithlabs/zenith/internal/events"
	"github.com/zenithlabs/zenith/internal/sessions"
)

// EngineFactory builds a conversation engine bound to a session. authed
// reports the owning client's authentication state at mutation time.
type EngineFactory func(sessionID string, authed func() bool) *chat.Engine

// Client represents a connected WebSocket client and its conversation.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	mu        sync.Mutex
	authed    bool
	sessionID string
	engine    *chat.Engine
}

func (c *Client) isAuthed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authed || c.hub.authToken == ""
}

// Hub manages WebSocket clients and bridges them to the event bus.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]struct{}
	bus         *events.Bus
	store       sessions.Store
	factory     EngineFactory
	authToken   string
	unsubscribe func()
}

// NewHub creates a WebSocket hub. authToken empty disables client auth.
func NewHub(bus *events.Bus, store sessions.Store, factory EngineFactory, authToken string) *Hub {
	h := &Hub{
		clients:   make(map[*Client]struct{}),
		bus:       bus,
		store:     store,
		factory:   factory,
		authToken: authToken,
	}

	// Bridge all bus events to connected clients.
	h.unsubscribe = bus.Subscribe(func(e events.Event) {
		frame, err := NewEventFrame(string(e.Type), e.SessionID, e)
		if err != nil {
			slog.Error("marshal event frame", "error", err)
			return
		}
		data, err := MarshalFrame(frame)
		if err != nil {
			slog.Error("marshal frame", "error", err)
			return
		}
		h.broadcast(data)
	})

	return h
}

// broadcast sends data to all connected clients.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	slog.Info("ws client connected", "clients", len(h.clients))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		slog.Info("ws client disconnected", "clients", len(h.clients))
	}
}

// ServeWS handles a WebSocket upgrade and manages the client lifecycle.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow any origin for dev
	})
	if err != nil {
		slog.Error("ws accept", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.register(client)

	ctx := r.Context()
	go client.writePump(ctx)
	client.readPump(ctx)
}

// readPump reads frames from the WS connection and dispatches them. One
// frame is fully handled before the next is read, so each client
// processes at most one conversation turn at a time.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			slog.Debug("ws read closed", "error", err)
			return
		}

		frame, err := UnmarshalFrame(data)
		if err != nil {
			slog.Error("ws unmarshal frame", "error", err)
			continue
		}

		if frame.Type == FrameTypeRequest {
			c.handleRequest(ctx, frame)
		}
	}
}

func (c *Client) handleRequest(ctx context.Context, frame Frame) {
	switch Method(frame.Method) {
	case MethodAuthenticate:
		c.handleAuthenticate(frame)
	case MethodOpenSession:
		c.handleOpenSession(frame)
	case MethodSendMessage:
		c.handleSendMessage(ctx, frame)
	default:
		c.sendError(frame.ID, "unknown method: "+frame.Method)
	}
}

func (c *Client) handleAuthenticate(frame Frame) {
	var params struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(frame.Params, &params); err != nil {
		c.sendError(frame.ID, "invalid params")
		return
	}

	c.mu.Lock()
	c.authed = c.hub.authToken != "" && params.Token == c.hub.authToken
	ok := c.authed
	c.mu.Unlock()

	if !ok {
		c.sendError(frame.ID, "invalid token")
		return
	}
	c.sendOK(frame.ID, map[string]string{"status": "authenticated"})
}

func (c *Client) handleOpenSession(frame Frame) {
	s, err := c.hub.store.Create()
	if err != nil {
		c.sendError(frame.ID, err.Error())
		return
	}

	c.mu.Lock()
	c.sessionID = s.ID
	c.engine = c.hub.factory(s.ID, c.isAuthed)
	c.mu.Unlock()

	c.hub.bus.Publish(events.NewEventWithSession(events.EventSessionCreated,
		events.SourceGateway, map[string]any{"session_id": s.ID}, s.ID))
	c.sendOK(frame.ID, map[string]string{"session_id": s.ID})
}

func (c *Client) handleSendMessage(ctx context.Context, frame Frame) {
	var params struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(frame.Params, &params); err != nil {
		c.sendError(frame.ID, "invalid params")
		return
	}

	c.mu.Lock()
	engine := c.engine
	sessionID := c.sessionID
	c.mu.Unlock()

	if engine == nil {
		c.sendError(frame.ID, "no open session")
		return
	}

	reply, err := engine.Turn(ctx, params.Content)
	if err != nil {
		// Transport failure: report out of band, nothing enters the
		// transcript.
		c.sendError(frame.ID, err.Error())
		return
	}

	if err := c.hub.store.AppendMessage(sessionID, sessions.NewMessage("user", params.Content)); err != nil {
		slog.Warn("append user message", "session", sessionID, "error", err)
	}
	if reply != "" {
		if err := c.hub.store.AppendMessage(sessionID, sessions.NewMessage("assistant", reply)); err != nil {
			slog.Warn("append assistant message", "session", sessionID, "error", err)
		}
	}

	c.sendOK(frame.ID, map[string]string{"reply": reply})
}

// writePump writes queued messages to the WS connection.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) sendOK(id string, payload any) {
	f, err := NewResponseFrame(id, true, payload, "")
	if err != nil {
		return
	}
	c.enqueue(f)
}

func (c *Client) sendError(id string, errMsg string) {
	f, err := NewResponseFrame(id, false, nil, errMsg)
	if err != nil {
		return
	}
	c.enqueue(f)
}

func (c *Client) enqueue(f Frame) {
	data, err := MarshalFrame(f)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Close shuts down the hub and all client connections.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutdown")
		delete(h.clients, c)
	}
}
