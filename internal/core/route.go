package core

// route dispatches a single event to whichever sub-machine owns its
// concrete type and returns the follow-on events it produces. This is the
// Go equivalent of original_source/src/core.rs's big `match e { Allocator(e)
// => self.allocator.process(e), ... }` — here the match is on concrete
// event type rather than an explicit enum tag, since Go doesn't have sum
// types, but the effect (one dispatch table, one line per machine) is the
// same.
func (c *WormholeCore) route(e Event) []Event {
	switch ev := e.(type) {

	// API events: Boss is the entry point.
	case EvStart:
		return c.boss.process(c, ev)
	case EvAllocateCode:
		return c.boss.process(c, ev)
	case EvSetCode:
		return c.boss.process(c, ev)
	case EvInputCode:
		return c.boss.process(c, ev)
	case EvSend:
		return c.boss.process(c, ev)
	case EvClose:
		return c.boss.process(c, ev)

	// IO events: Rendezvous is the entry point.
	case EvWebSocketConnectionMade:
		return c.rendezvous.process(c, ev)
	case EvWebSocketMessageReceived:
		return c.rendezvous.process(c, ev)
	case EvWebSocketConnectionLost:
		return c.rendezvous.process(c, ev)
	case EvTimerExpired:
		return c.rendezvous.process(c, ev)

	// Cross-machine directives.
	case toRendezvousStart:
		return c.rendezvous.process(c, ev)
	case toRendezvousStop:
		return c.rendezvous.process(c, ev)
	case toRendezvousTX:
		return c.rendezvous.process(c, ev)

	case toAllocatorAllocate:
		return c.allocator.process(c, ev)

	case toListerRefresh:
		return c.lister.process(c, ev)
	case toListerGotNameplates:
		return c.input.process(c, ev)

	case toCodeAllocate:
		return c.code.process(c, ev)
	case toCodeSetCode:
		return c.code.process(c, ev)
	case toCodeGotNameplate:
		return c.code.process(c, ev)

	case toNameplateClaim:
		return c.nameplate.process(c, ev)
	case toNameplateRelease:
		return c.nameplate.process(c, ev)
	case toNameplateClaimed:
		return c.nameplate.process(c, ev)
	case toNameplateReleased:
		return c.nameplate.process(c, ev)

	case toMailboxOpen:
		return c.mailbox.process(c, ev)
	case toMailboxSend:
		return c.mailbox.process(c, ev)
	case toMailboxClose:
		return c.mailbox.process(c, ev)
	case toMailboxRX:
		return c.mailbox.process(c, ev)

	case toOrderGotMessage:
		return c.order.process(c, ev)
	case toOrderKeyReady:
		return c.order.process(c, ev)

	case toKeySetCode:
		return c.key.process(c, ev)
	case toKeyGotPake:
		return c.key.process(c, ev)

	case toSendBegin:
		return c.send.process(c, ev)
	case toSendQueue:
		return c.send.process(c, ev)

	case toReceiveBegin:
		return c.receive.process(c, ev)
	case toReceiveGotPhase:
		return c.receive.process(c, ev)

	case toTerminatorClose:
		return c.terminator.process(c, ev)
	case toTerminatorNameplateDone:
		return c.terminator.process(c, ev)
	case toTerminatorMailboxDone:
		return c.terminator.process(c, ev)
	case toTerminatorRendezvousDone:
		return c.terminator.process(c, ev)

	// Notifications that land back on Boss.
	case toBossWelcome:
		return c.boss.process(c, ev)
	case toBossClosed:
		return c.boss.process(c, ev)
	case toBossError:
		return c.boss.process(c, ev)
	case toCodeGotCode:
		return c.boss.process(c, ev)
	case toKeyGotVerifiedKey:
		return c.boss.process(c, ev)
	case toReceiveScared:
		return c.boss.process(c, ev)

	default:
		panic("core: unroutable event")
	}
}
