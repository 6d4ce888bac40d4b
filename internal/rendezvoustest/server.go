// Package rendezvoustest is an in-memory rendezvous server for exercising
// internal/core and internal/rendezvousio end to end in tests, without a
// real network service. Grounded on cmd/ww/server.go's relay handler,
// adapted from its slot offer/answer WebRTC rendezvous to nameplate and
// mailbox message-queue relaying.
package rendezvoustest

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"nhooyr.io/websocket"
)

type wireFrame struct {
	Type       string                 `json:"type"`
	AppID      string                 `json:"appid,omitempty"`
	Side       string                 `json:"side,omitempty"`
	Nameplate  string                 `json:"nameplate,omitempty"`
	Mailbox    string                 `json:"mailbox,omitempty"`
	Phase      string                 `json:"phase,omitempty"`
	Body       string                 `json:"body,omitempty"`
	Mood       string                 `json:"mood,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Welcome    map[string]interface{} `json:"welcome,omitempty"`
	Nameplates []wireNameplate        `json:"nameplates,omitempty"`
}

type wireNameplate struct {
	ID string `json:"id"`
}

// Server is a minimal stand-in for the real rendezvous server: it
// allocates nameplates, opens mailboxes, and relays each "add" as a
// "message" to every client attached to the same mailbox, the sender
// included. A client that opens a mailbox is first sent every message
// already added to it.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	nameplates map[string]string // nameplate -> mailbox
	mailboxes  map[string]map[*client]bool
	messages   map[string][]wireFrame // mailbox -> messages added so far
}

type client struct {
	conn    *websocket.Conn
	appid   string
	side    string
	mailbox string
}

// New starts a Server listening on a local loopback address. Callers
// should use Server.WS() as the -relay flag / rendezvousMachine url.
func New() *Server {
	s := &Server{
		nameplates: make(map[string]string),
		mailboxes:  make(map[string]map[*client]bool),
		messages:   make(map[string][]wireFrame),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// WS returns the ws:// URL clients should dial.
func (s *Server) WS() string {
	return "ws" + s.Server.URL[len("http"):]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	ctx := r.Context()
	c := &client{conn: conn}
	defer s.disconnect(c)
	for {
		_, buf, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var f wireFrame
		if err := json.Unmarshal(buf, &f); err != nil {
			return
		}
		s.handleFrame(ctx, c, f)
	}
}

func (s *Server) handleFrame(ctx context.Context, c *client, f wireFrame) {
	switch f.Type {
	case "bind":
		c.appid = f.AppID
		c.side = f.Side
		s.send(ctx, c, wireFrame{Type: "welcome", Welcome: map[string]interface{}{}})

	case "allocate":
		s.mu.Lock()
		n := s.freeNameplate()
		s.nameplates[n] = ""
		s.mu.Unlock()
		s.send(ctx, c, wireFrame{Type: "allocated", Nameplate: n})

	case "claim":
		s.mu.Lock()
		mailbox, ok := s.nameplates[f.Nameplate]
		if !ok {
			mailbox = "mbox-" + f.Nameplate
		}
		if mailbox == "" {
			mailbox = "mbox-" + f.Nameplate
		}
		s.nameplates[f.Nameplate] = mailbox
		s.mu.Unlock()
		s.send(ctx, c, wireFrame{Type: "claimed", Mailbox: mailbox})

	case "release":
		s.send(ctx, c, wireFrame{Type: "released"})

	case "open":
		s.mu.Lock()
		c.mailbox = f.Mailbox
		if s.mailboxes[f.Mailbox] == nil {
			s.mailboxes[f.Mailbox] = make(map[*client]bool)
		}
		s.mailboxes[f.Mailbox][c] = true
		backlog := append([]wireFrame(nil), s.messages[f.Mailbox]...)
		s.mu.Unlock()
		for _, m := range backlog {
			s.send(ctx, c, m)
		}

	case "add":
		msg := wireFrame{Type: "message", Side: c.side, Phase: f.Phase, Body: f.Body}
		s.mu.Lock()
		s.messages[c.mailbox] = append(s.messages[c.mailbox], msg)
		peers := s.mailboxes[c.mailbox]
		var targets []*client
		for p := range peers {
			targets = append(targets, p)
		}
		s.mu.Unlock()
		for _, p := range targets {
			s.send(ctx, p, msg)
		}

	case "close":
		s.mu.Lock()
		if peers := s.mailboxes[f.Mailbox]; peers != nil {
			delete(peers, c)
		}
		s.mu.Unlock()
		s.send(ctx, c, wireFrame{Type: "closed"})

	case "list":
		s.mu.Lock()
		nps := make([]wireNameplate, 0, len(s.nameplates))
		for id := range s.nameplates {
			nps = append(nps, wireNameplate{ID: id})
		}
		s.mu.Unlock()
		s.send(ctx, c, wireFrame{Type: "nameplates", Nameplates: nps})
	}
}

// freeNameplate assumes s.mu is held.
func (s *Server) freeNameplate() string {
	for {
		n := strconv.Itoa(rand.Intn(1000))
		if _, ok := s.nameplates[n]; !ok {
			return n
		}
	}
}

func (s *Server) send(ctx context.Context, c *client, f wireFrame) {
	body, err := json.Marshal(f)
	if err != nil {
		return
	}
	c.conn.Write(ctx, websocket.MessageText, body)
}

func (s *Server) disconnect(c *client) {
	s.mu.Lock()
	if c.mailbox != "" {
		if peers := s.mailboxes[c.mailbox]; peers != nil {
			delete(peers, c)
		}
	}
	s.mu.Unlock()
}
