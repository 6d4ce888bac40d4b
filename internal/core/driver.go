package core

// WormholeCore owns the thirteen sub-machines and the FIFO event queue
// that connects them. It never blocks and never reenters itself: each
// public call (Start, DoAPI, DoIO) drains the queue completely before
// returning, mirroring original_source/src/core.rs's WormholeCore::_execute.
type WormholeCore struct {
	appid AppID
	side  Side

	allocator   allocatorMachine
	boss        bossMachine
	code        codeMachine
	input       inputMachine
	key         keyMachine
	lister      listerMachine
	mailbox     mailboxMachine
	nameplate   nameplateMachine
	order       orderMachine
	receive     receiveMachine
	rendezvous  rendezvousMachine
	send        sendMachine
	terminator  terminatorMachine
	timing      timing

	queue     []Event
	pendingIO []IOAction
	draining  bool
}

// New constructs a fresh engine for one session. relayURL is the
// rendezvous server's WebSocket URL.
func New(appid AppID, relayURL string, side Side) *WormholeCore {
	c := &WormholeCore{appid: appid, side: side}
	c.allocator = newAllocatorMachine()
	c.boss = newBossMachine()
	c.code = newCodeMachine()
	c.input = newInputMachine()
	c.key = newKeyMachine(appid, side)
	c.lister = newListerMachine()
	c.mailbox = newMailboxMachine(side)
	c.nameplate = newNameplateMachine()
	c.order = newOrderMachine()
	c.receive = newReceiveMachine(side)
	c.rendezvous = newRendezvousMachine(appid, relayURL, side)
	c.send = newSendMachine(side)
	c.terminator = newTerminatorMachine()
	c.timing = newTiming()
	return c
}

// Start is equivalent to DoAPI(EvStart{}).
func (c *WormholeCore) Start() []APIAction {
	return c.DoAPI(EvStart{})
}

// DoAPI submits an event from the embedder and drains the queue. Every
// API event's entry point is the Boss machine, which owns the overall
// session lifecycle.
func (c *WormholeCore) DoAPI(ev Event) []APIAction {
	return c.execute([]Event{ev})
}

// DoIO submits an event from the transport and drains the queue. Every IO
// event's entry point is the Rendezvous machine, which owns the single
// WebSocket connection and the reconnect timer.
func (c *WormholeCore) DoIO(ev Event) []APIAction {
	return c.execute([]Event{ev})
}

// NameplateCompletions returns every nameplate from the last refresh
// (triggered by EvInputCode) with the given prefix, for completing the
// nameplate half of an interactively typed code.
func (c *WormholeCore) NameplateCompletions(prefix string) []Nameplate {
	return c.input.CompleteNameplate(prefix)
}

// WordCompletions returns every PGP wordlist entry with the given
// prefix, for completing the word half of an interactively typed code.
func (c *WormholeCore) WordCompletions(prefix string) []string {
	return c.input.CompleteWord(prefix)
}

// CommitNameplate records that the user has settled on nameplate as the
// nameplate half of their code. It doesn't claim the nameplate itself;
// that still happens via SetCode/AllocateCode once the full code is
// known.
func (c *WormholeCore) CommitNameplate(nameplate Nameplate) {
	c.input.Commit(nameplate)
}

// CommittedNameplate returns the nameplate last passed to
// CommitNameplate, if any.
func (c *WormholeCore) CommittedNameplate() (Nameplate, bool) {
	return c.input.Committed()
}

// DeriveKey is the HKDF sub-key derivation function the spec requires be
// exposed for transit use (spec.md §4.2). It is the single source of
// truth for every purpose-scoped sub-key in this module.
func DeriveKey(key [32]byte, purpose string, length int) []byte {
	return deriveKey(key[:], purpose, length)
}

// execute drains evs (and anything sub-machines push back) to
// quiescence, collecting APIActions and dispatching IOActions as it
// goes. It never reenters: it is only ever called from Start/DoAPI/DoIO,
// each of which owns the whole drain.
func (c *WormholeCore) execute(evs []Event) []APIAction {
	var actions []APIAction
	c.queue = append(c.queue, evs...)
	if c.draining {
		// Defensive: the engine contract forbids reentrancy. A
		// sub-machine must never call back into DoAPI/DoIO while
		// being processed.
		panic("core: engine reentered mid-drain")
	}
	c.draining = true
	defer func() { c.draining = false }()

	for len(c.queue) > 0 {
		e := c.queue[0]
		c.queue = c.queue[1:]

		out := c.route(e)
		for _, o := range out {
			switch v := o.(type) {
			case APIAction:
				c.markMilestone(v)
				actions = append(actions, v)
			case IOAction:
				// IOActions are not re-queued: they are stashed
				// in pendingIO, and the IO glue retrieves them
				// via Drain below after each Start/DoAPI/DoIO.
				c.pendingIO = append(c.pendingIO, v)
			default:
				c.queue = append(c.queue, o)
			}
		}
	}
	return actions
}

// Drain returns and clears any IOActions accumulated by the last
// Start/DoAPI/DoIO call. The I/O glue calls this immediately after each
// of those calls and executes every action it returns.
func (c *WormholeCore) Drain() []IOAction {
	io := c.pendingIO
	c.pendingIO = nil
	return io
}

// markMilestone records the handful of APIActions worth timing: the
// events that mark a session's major lifecycle transitions rather than
// its steady-state message traffic.
func (c *WormholeCore) markMilestone(a APIAction) {
	switch v := a.(type) {
	case ActGotCode:
		c.timing.mark("got-code")
	case ActGotUnverifiedKey:
		c.timing.mark("got-key")
	case ActGotVerifier:
		c.timing.mark("got-verifier")
	case ActGotClosed:
		c.timing.mark("closed:" + string(v.Mood))
	}
}

// Marks returns the engine's timing log: named milestones and how long
// after construction each occurred. Intended for diagnostics, not
// protocol logic.
func (c *WormholeCore) Marks() []timingMark {
	return c.timing.Marks()
}
