package core

// allocatorMachine asks the rendezvous server to mint a fresh nameplate.
// The response ("allocated") is demultiplexed straight to the Code
// machine by rendezvous.dispatch, so this machine only ever has to
// forward the request.
type allocatorMachine struct{}

func newAllocatorMachine() allocatorMachine { return allocatorMachine{} }

func (m *allocatorMachine) process(c *WormholeCore, e Event) []Event {
	switch e.(type) {
	case toAllocatorAllocate:
		return []Event{toRendezvousTX{Frame: allocateFrame()}}
	}
	return nil
}
