package wormhole

import (
	"errors"
	"fmt"
	"sync"

	"github.com/webwormhole/wormhole/internal/core"
	"github.com/webwormhole/wormhole/internal/diag"
	"github.com/webwormhole/wormhole/internal/rendezvousio"
)

// AppID, Code, Mood and Nameplate are the protocol engine's own types,
// re-exported here so callers of this package never need to import
// internal/core directly.
type (
	AppID     = core.AppID
	Code      = core.Code
	Mood      = core.Mood
	Nameplate = core.Nameplate
)

const (
	MoodHappy     = core.MoodHappy
	MoodLonely    = core.MoodLonely
	MoodScared    = core.MoodScared
	MoodErrory    = core.MoodErrory
	MoodUnwelcome = core.MoodUnwelcome
)

// Client is a synchronous front end onto the asynchronous protocol
// engine in internal/core: every Get* method blocks until the engine
// has reached the corresponding milestone, fed to it by the
// rendezvousio Glue running the actual WebSocket.
//
// A Client satisfies internal/transit.Peer, so it can be handed
// straight to transit.Send/transit.Receive once a key is established.
type Client struct {
	glue *rendezvousio.Glue
	appid core.AppID

	welcomeReady chan struct{}
	welcome      map[string]interface{}

	codeReady chan struct{}
	code      core.Code

	keyReady chan struct{}
	key      [32]byte

	verifierReady chan struct{}
	verifier      [32]byte

	versionsReady chan struct{}
	versions      map[string]interface{}

	messages chan []byte

	closedReady chan struct{}
	mood        core.Mood
}

// New creates a Client for one wormhole session against the rendezvous
// server at relayURL and starts it running. appid scopes the session
// within the server's namespace; unrelated apps sharing a server never
// see each other's nameplates.
func New(appid core.AppID, relayURL string) *Client {
	side := core.NewSide()
	c := core.New(appid, relayURL, side)
	glue, actions := rendezvousio.New(c)

	cl := &Client{
		glue:          glue,
		appid:         appid,
		welcomeReady:  make(chan struct{}),
		codeReady:     make(chan struct{}),
		keyReady:      make(chan struct{}),
		verifierReady: make(chan struct{}),
		versionsReady: make(chan struct{}),
		messages:      make(chan []byte, 16),
		closedReady:   make(chan struct{}),
	}
	diag.Counters.SessionsStarted.Add(1)
	go cl.dispatch(actions)
	glue.Start()
	return cl
}

// dispatch is the only goroutine allowed to write to a Client's cached
// fields; every Get* method only ever reads after its ready channel
// closes, which happens-before any read via the channel close itself.
func (cl *Client) dispatch(actions <-chan core.APIAction) {
	var closeMessagesOnce sync.Once
	for a := range actions {
		switch v := a.(type) {
		case core.ActGotWelcome:
			cl.welcome = v.Welcome
			close(cl.welcomeReady)
		case core.ActGotCode:
			cl.code = v.Code
			diag.Counters.NameplatesUsed.Add(1)
			close(cl.codeReady)
		case core.ActGotUnverifiedKey:
			cl.key = v.Key
			close(cl.keyReady)
		case core.ActGotVerifier:
			cl.verifier = v.Verifier
			close(cl.verifierReady)
		case core.ActGotVersions:
			cl.versions = v.Versions
			close(cl.versionsReady)
		case core.ActGotMessage:
			cl.messages <- v.Body
		case core.ActGotClosed:
			cl.mood = v.Mood
			switch v.Mood {
			case core.MoodHappy:
				diag.Counters.SessionsHappy.Add(1)
			case core.MoodScared:
				diag.Counters.SessionsScared.Add(1)
			case core.MoodErrory, core.MoodUnwelcome, core.MoodLonely:
				diag.Counters.SessionsErrory.Add(1)
			}
			close(cl.closedReady)
			closeMessagesOnce.Do(func() { close(cl.messages) })
		}
	}
}

// AllocateCode asks the rendezvous server to allocate a fresh nameplate
// and picks n random words to append to it (2 if n <= 0), ready to show
// the user once GetCode returns.
func (cl *Client) AllocateCode(words int) {
	cl.glue.DoAPI(core.EvAllocateCode{Words: words})
}

// SetCode joins an existing session using a code the user typed in or
// scanned, of the form "4-purple-sausages".
func (cl *Client) SetCode(code core.Code) {
	cl.glue.DoAPI(core.EvSetCode{Code: code})
}

// GetWelcome blocks until the rendezvous server's welcome message
// arrives, which may carry a "motd" to print or a minimum client
// version the server requires.
func (cl *Client) GetWelcome() map[string]interface{} {
	<-cl.welcomeReady
	return cl.welcome
}

// GetCode blocks until this side's code is known, either because it
// was allocated or because the caller supplied it directly.
func (cl *Client) GetCode() core.Code {
	<-cl.codeReady
	return cl.code
}

// GetKey blocks until the PAKE exchange produces a shared key. The key
// is not yet verified at this point: see GetVerifier.
func (cl *Client) GetKey() [32]byte {
	<-cl.keyReady
	return cl.key
}

// GetVerifier blocks until the key is available and returns a value
// both sides can compare out-of-band (e.g. by displaying it) to detect
// a different code having been typed on one end.
func (cl *Client) GetVerifier() [32]byte {
	<-cl.verifierReady
	return cl.verifier
}

// GetVersions blocks until the peer's version phase arrives, confirming
// the key matches on both ends (wrong codes fail to decrypt it).
func (cl *Client) GetVersions() map[string]interface{} {
	<-cl.versionsReady
	return cl.versions
}

// RefreshNameplates asks the rendezvous server for the nameplates
// currently open, refreshing the list NameplateCompletions completes
// against. Embedders offering interactive code entry call this as the
// user begins typing a code.
func (cl *Client) RefreshNameplates() {
	cl.glue.DoAPI(core.EvInputCode{})
}

// NameplateCompletions returns every nameplate from the last
// RefreshNameplates with the given prefix, for completing the
// nameplate half of an interactively typed code.
func (cl *Client) NameplateCompletions(prefix string) []core.Nameplate {
	return cl.glue.NameplateCompletions(prefix)
}

// WordCompletions returns every PGP wordlist entry with the given
// prefix, for completing the word half of an interactively typed code.
func (cl *Client) WordCompletions(prefix string) []string {
	return cl.glue.WordCompletions(prefix)
}

// CommitNameplate records that the user has settled on nameplate as the
// nameplate half of their code, for embedders that want to track this
// separately from the rest of the typed code.
func (cl *Client) CommitNameplate(nameplate core.Nameplate) {
	cl.glue.CommitNameplate(nameplate)
}

// CommittedNameplate returns the nameplate last passed to
// CommitNameplate, if any.
func (cl *Client) CommittedNameplate() (core.Nameplate, bool) {
	return cl.glue.CommittedNameplate()
}

// SendMessage encrypts and queues body as the next application phase.
func (cl *Client) SendMessage(body []byte) {
	cl.glue.DoAPI(core.EvSend{Body: body})
}

// GetMessage blocks for the next decrypted application message. It
// returns an error once the session has closed and no more messages
// will ever arrive.
func (cl *Client) GetMessage() ([]byte, error) {
	body, ok := <-cl.messages
	if !ok {
		return nil, fmt.Errorf("wormhole: session closed (%s)", cl.mood)
	}
	return body, nil
}

// ErrKeyNotReady is returned by DeriveTransitKey when called before the
// PAKE exchange has produced a key. Callers that already waited on
// GetVerifier or GetVersions never see this; it exists for callers that
// reach for the transit key too early.
var ErrKeyNotReady = errors.New("wormhole: transit key requested before the session key is ready")

// DeriveTransitKey derives the file-transfer subsystem's key from the
// session key, scoped by appid ("<appid>/transit-key") so unrelated
// apps never share a transit key even if they happened to collide on a
// rendezvous session. appid is ordinarily the client's own, but callers
// bridging two different app ids onto one session can pass another. It
// returns ErrKeyNotReady rather than blocking if the key isn't available
// yet.
func (cl *Client) DeriveTransitKey(appid core.AppID) ([32]byte, error) {
	select {
	case <-cl.keyReady:
	default:
		return [32]byte{}, ErrKeyNotReady
	}
	key := cl.GetKey()
	var out [32]byte
	copy(out[:], core.DeriveKey(key, string(appid)+"/transit-key", 32))
	return out, nil
}

// Close tells the engine to wind the session down (with mood happy,
// unless an earlier failure already began closing it) and waits
// for it to confirm every sub-machine (nameplate, mailbox, rendezvous)
// has finished, then stops the I/O glue. It returns the terminal mood,
// so callers can tell a happy close from a scared or errory one.
func (cl *Client) Close() core.Mood {
	cl.glue.DoAPI(core.EvClose{})
	<-cl.closedReady
	cl.glue.Close()
	return cl.mood
}
