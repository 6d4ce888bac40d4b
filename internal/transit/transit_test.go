package transit

import (
	"errors"
	"testing"
)

// fakePeer replays a fixed queue of inbound messages and records what's
// sent, enough to drive Receive up to the point it decides whether the
// offer is acceptable without ever touching the network.
type fakePeer struct {
	inbound [][]byte
	sent    [][]byte
}

func (p *fakePeer) SendMessage(body []byte) {
	p.sent = append(p.sent, body)
}

func (p *fakePeer) GetMessage() ([]byte, error) {
	if len(p.inbound) == 0 {
		return nil, errors.New("fakePeer: no more messages queued")
	}
	m := p.inbound[0]
	p.inbound = p.inbound[1:]
	return m, nil
}

func TestReceiveRejectsDirectoryOffer(t *testing.T) {
	peer := &fakePeer{
		inbound: [][]byte{
			buildTransitMsg(nil, RelayHint{}),
			[]byte(`{"offer":{"directory":{"dirname":"photos","numbytes":10,"numfiles":1}}}`),
		},
	}
	var key [32]byte
	_, err := Receive(peer, key, RelayAddr{}, t.TempDir())
	if !errors.Is(err, ErrUnsupportedOffer) {
		t.Fatalf("expected ErrUnsupportedOffer, got %v", err)
	}
	if len(peer.sent) != 1 {
		t.Fatalf("expected only the transit hints to have been sent, got %d messages", len(peer.sent))
	}
}
