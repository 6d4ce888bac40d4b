// Package rendezvousio is the only part of this module that actually
// opens a socket or starts a timer for the protocol engine in
// internal/core. The engine itself is pure: it only emits IOActions
// describing what it wants done. Glue executes those actions against a
// real nhooyr.io/websocket connection and real time.AfterFunc timers,
// and feeds the resulting network/timer events back into the engine,
// one goroutine at a time.
package rendezvousio

import (
	"context"
	"log"
	"time"

	"nhooyr.io/websocket"

	"github.com/webwormhole/wormhole/internal/core"
)

// Glue serializes every call into the engine through a single worker
// goroutine, so the embedder's calls (DoAPI, via the Client) and the
// WebSocket's own read loop (DoIO) never race on WormholeCore, which is
// not safe for concurrent use by design (see driver.go's "never
// reenters" contract).
type Glue struct {
	core *core.WormholeCore

	actions chan func() []core.APIAction
	out     chan core.APIAction
	done    chan struct{}

	cancelWS context.CancelFunc
	ws       *websocket.Conn
	wsHandle core.WSHandle

	timers map[core.TimerHandle]*time.Timer
}

// New starts a Glue's worker goroutine around c. Actions is the channel
// of APIActions the embedder should range over; it is closed when Close
// stops the worker goroutine.
func New(c *core.WormholeCore) (g *Glue, actions <-chan core.APIAction) {
	g = &Glue{
		core:    c,
		actions: make(chan func() []core.APIAction, 16),
		out:     make(chan core.APIAction, 16),
		done:    make(chan struct{}),
		timers:  make(map[core.TimerHandle]*time.Timer),
	}
	go g.loop()
	return g, g.out
}

// loop is the single goroutine allowed to touch g.core. Every other
// method only ever enqueues a closure onto g.actions.
func (g *Glue) loop() {
	defer close(g.out)
	for {
		select {
		case fn, ok := <-g.actions:
			if !ok {
				return
			}
			for _, a := range fn() {
				g.out <- a
			}
			g.runIO()
		case <-g.done:
			return
		}
	}
}

// runIO executes whatever IOActions the last engine call queued up.
// Called only from loop, so it never races the handlers it starts.
func (g *Glue) runIO() {
	for _, ioa := range g.core.Drain() {
		switch a := ioa.(type) {
		case core.ActWebSocketOpen:
			g.openWS(a)
		case core.ActWebSocketSendMessage:
			g.sendWS(a)
		case core.ActWebSocketClose:
			g.closeWS(a)
		case core.ActStartTimer:
			g.startTimer(a)
		case core.ActCancelTimer:
			g.cancelTimer(a)
		}
	}
}

// Start queues the engine's Start call onto the worker goroutine and
// returns without waiting for it; the worker then dispatches the
// IOActions it produces (almost always ActWebSocketOpen).
func (g *Glue) Start() {
	g.submit(func() []core.APIAction { return g.core.Start() })
}

// DoAPI submits an embedder-originated event.
func (g *Glue) DoAPI(ev core.Event) {
	g.submit(func() []core.APIAction { return g.core.DoAPI(ev) })
}

// doIO submits a transport-originated event. Unlike DoAPI this is only
// ever called from Glue's own read-loop and timer-fired goroutines.
func (g *Glue) doIO(ev core.Event) {
	g.submit(func() []core.APIAction { return g.core.DoIO(ev) })
}

func (g *Glue) submit(fn func() []core.APIAction) {
	select {
	case g.actions <- fn:
	case <-g.done:
	}
}

// query runs fn against the engine from the worker goroutine and
// returns its result, blocking until loop gets to it. It exists for
// reads like completion lookups that return a value but don't fit the
// APIAction/IOAction event model DoAPI/doIO drive.
func query[T any](g *Glue, fn func(*core.WormholeCore) T) T {
	out := make(chan T, 1)
	g.submit(func() []core.APIAction {
		out <- fn(g.core)
		return nil
	})
	select {
	case v := <-out:
		return v
	case <-g.done:
		var zero T
		return zero
	}
}

// NameplateCompletions returns nameplate completions for prefix.
func (g *Glue) NameplateCompletions(prefix string) []core.Nameplate {
	return query(g, func(c *core.WormholeCore) []core.Nameplate {
		return c.NameplateCompletions(prefix)
	})
}

// WordCompletions returns PGP wordlist completions for prefix.
func (g *Glue) WordCompletions(prefix string) []string {
	return query(g, func(c *core.WormholeCore) []string {
		return c.WordCompletions(prefix)
	})
}

// CommitNameplate records that the user has settled on nameplate.
func (g *Glue) CommitNameplate(nameplate core.Nameplate) {
	query(g, func(c *core.WormholeCore) struct{} {
		c.CommitNameplate(nameplate)
		return struct{}{}
	})
}

// CommittedNameplate returns the nameplate last passed to
// CommitNameplate, if any.
func (g *Glue) CommittedNameplate() (core.Nameplate, bool) {
	type pair struct {
		nameplate core.Nameplate
		ok        bool
	}
	p := query(g, func(c *core.WormholeCore) pair {
		n, ok := c.CommittedNameplate()
		return pair{n, ok}
	})
	return p.nameplate, p.ok
}

// Close tears down any open connection and timers and stops the worker
// goroutine. It does not itself tell the engine to close the session;
// callers that want a clean "happy" close should DoAPI(EvClose{})
// first and let the engine's own ActWebSocketClose reach closeWS.
func (g *Glue) Close() {
	select {
	case <-g.done:
		return
	default:
	}
	close(g.done)
	if g.cancelWS != nil {
		g.cancelWS()
	}
	for _, t := range g.timers {
		t.Stop()
	}
}

func (g *Glue) openWS(a core.ActWebSocketOpen) {
	ctx, cancel := context.WithCancel(context.Background())
	ws, _, err := websocket.Dial(ctx, a.URL, nil)
	if err != nil {
		cancel()
		g.doIO(core.EvWebSocketConnectionLost{Handle: a.Handle})
		return
	}
	g.ws = ws
	g.wsHandle = a.Handle
	g.cancelWS = cancel
	g.doIO(core.EvWebSocketConnectionMade{Handle: a.Handle})
	go g.readLoop(ctx, ws, a.Handle)
}

// readLoop is the only place that calls ws.Read. It runs for the
// lifetime of one connection and reports every message, and the
// eventual read error that ends the connection, back to the engine.
func (g *Glue) readLoop(ctx context.Context, ws *websocket.Conn, handle core.WSHandle) {
	for {
		_, buf, err := ws.Read(ctx)
		if err != nil {
			g.doIO(core.EvWebSocketConnectionLost{Handle: handle})
			return
		}
		g.doIO(core.EvWebSocketMessageReceived{Handle: handle, Text: string(buf)})
	}
}

func (g *Glue) sendWS(a core.ActWebSocketSendMessage) {
	if g.ws == nil || a.Handle != g.wsHandle {
		return
	}
	if err := g.ws.Write(context.Background(), websocket.MessageText, []byte(a.Message)); err != nil {
		log.Printf("rendezvousio: write on handle %d: %v", a.Handle, err)
	}
}

func (g *Glue) closeWS(a core.ActWebSocketClose) {
	if g.ws == nil || a.Handle != g.wsHandle {
		return
	}
	g.ws.Close(websocket.StatusNormalClosure, "done")
	if g.cancelWS != nil {
		g.cancelWS()
	}
	g.ws = nil
}

func (g *Glue) startTimer(a core.ActStartTimer) {
	if t, ok := g.timers[a.Handle]; ok {
		t.Stop()
	}
	handle := a.Handle
	g.timers[handle] = time.AfterFunc(time.Duration(a.Seconds*float64(time.Second)), func() {
		g.doIO(core.EvTimerExpired{Handle: handle})
	})
}

func (g *Glue) cancelTimer(a core.ActCancelTimer) {
	if t, ok := g.timers[a.Handle]; ok {
		t.Stop()
		delete(g.timers, a.Handle)
	}
}
