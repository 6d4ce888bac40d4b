package wormhole

import (
	"os"

	"github.com/webwormhole/wormhole/internal/transit"
)

// RelayAddr names a transit relay server to fall back on when no
// direct connection to the peer can be made.
type RelayAddr = transit.RelayAddr

// SendFile offers filename to the peer over the mailbox, races a
// direct/relay connection, and streams it as encrypted records. The
// transit key must already be known on both ends (derived from the
// same verified session key), which is why this only makes sense after
// GetVerifier has returned.
func (cl *Client) SendFile(filename string, relay RelayAddr) error {
	fi, err := os.Stat(filename)
	if err != nil {
		return err
	}
	key, err := cl.DeriveTransitKey(cl.appid)
	if err != nil {
		return err
	}
	return transit.Send(cl, key, relay, filename, fi.Size())
}

// ReceiveFile accepts the peer's file offer, races a connection the
// same way SendFile does, and writes the verified result into destDir.
// It returns the path the file was written to.
func (cl *Client) ReceiveFile(destDir string, relay RelayAddr) (string, error) {
	key, err := cl.DeriveTransitKey(cl.appid)
	if err != nil {
		return "", err
	}
	return transit.Receive(cl, key, relay, destDir)
}
