package core

// listerMachine asks the rendezvous server for the set of currently open
// nameplates, used to offer tab-completion when the embedder is waiting
// on a typed code. The response is demultiplexed to the Input machine by
// rendezvous.dispatch.
type listerMachine struct{}

func newListerMachine() listerMachine { return listerMachine{} }

func (m *listerMachine) process(c *WormholeCore, e Event) []Event {
	switch e.(type) {
	case toListerRefresh:
		return []Event{toRendezvousTX{Frame: listFrame()}}
	}
	return nil
}
