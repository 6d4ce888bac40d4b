package transit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/webwormhole/wormhole/internal/diag"
)

const dialTimeout = 5 * time.Second

// ErrUnsupportedOffer is returned by Receive when the peer offers
// something other than a single file — a directory offer, most likely.
// Rather than silently ack-and-discard, the offer is refused: no ack is
// sent to the peer and the caller gets this error.
var ErrUnsupportedOffer = errors.New("transit: only file offers are supported")

// Peer is the subset of the wormhole client's synchronous API the
// transit subsystem needs to negotiate hints and the file offer over
// the already-encrypted mailbox, before it ever opens a TCP connection
// of its own.
type Peer interface {
	SendMessage(body []byte)
	GetMessage() ([]byte, error)
}

// candidate is either a direct hint or a relay hint paired with whether
// it needs the relay handshake prefix.
type candidate struct {
	addr     string
	viaRelay bool
}

func candidatesFromHints(direct, relay []DirectHint) []candidate {
	var out []candidate
	for _, h := range direct {
		out = append(out, candidate{addr: fmt.Sprintf("%s:%d", h.Hostname, h.Port), viaRelay: false})
	}
	for _, h := range relay {
		out = append(out, candidate{addr: fmt.Sprintf("%s:%d", h.Hostname, h.Port), viaRelay: true})
	}
	return out
}

// Send offers filename over the mailbox, races to connect to the peer's
// advertised hints (listening locally in parallel in case they connect
// to us instead), streams it as AEAD records, and waits for the peer's
// checksum acknowledgement.
func Send(peer Peer, key [32]byte, relay RelayAddr, filename string, size int64) error {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return err
	}
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	peer.SendMessage(buildTransitMsg(localDirectHints(port), relayHint(relay)))

	msg, err := peer.GetMessage()
	if err != nil {
		return err
	}
	_, peerDirect, peerRelay, err := parseTransitMsg(msg)
	if err != nil {
		return err
	}

	peer.SendMessage(buildFileOffer(filepath.Base(filename), size))

	ack, err := peer.GetMessage()
	if err != nil {
		return err
	}
	var a answerMsg
	if err := json.Unmarshal(ack, &a); err != nil {
		return err
	}
	if a.Answer.FileAck != "ok" {
		return errors.New("transit: peer declined the file offer")
	}

	conn, skey, rkey, err := race(listener, candidatesFromHints(peerDirect, peerRelay), key, true)
	if err != nil {
		return err
	}
	defer conn.Close()

	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	checksum, err := sendRecords(conn, f, skey)
	if err != nil {
		return err
	}

	ackPacket, err := readRecord(conn)
	if err != nil {
		return err
	}
	plaintext, err := openRecord(rkey, ackPacket)
	if err != nil {
		return err
	}
	gotSHA, err := parseTransitAck(plaintext)
	if err != nil {
		return err
	}
	if gotSHA != hex.EncodeToString(checksum) {
		return errors.New("transit: peer reported a checksum mismatch")
	}
	return nil
}

// Receive accepts the sender's offer, races to connect the same way Send
// does, streams the file into destDir, verifies the checksum and sends
// the ack record back over the transit connection itself.
func Receive(peer Peer, key [32]byte, relay RelayAddr, destDir string) (string, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	peer.SendMessage(buildTransitMsg(localDirectHints(port), relayHint(relay)))

	msg, err := peer.GetMessage()
	if err != nil {
		return "", err
	}
	_, peerDirect, peerRelay, err := parseTransitMsg(msg)
	if err != nil {
		return "", err
	}

	offer, err := peer.GetMessage()
	if err != nil {
		return "", err
	}
	filename, size, kind, err := parseOffer(offer)
	if err != nil {
		return "", err
	}
	if kind != offerFile {
		return "", ErrUnsupportedOffer
	}
	peer.SendMessage(buildFileAck())

	conn, skey, rkey, err := race(listener, candidatesFromHints(peerDirect, peerRelay), key, false)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	destPath := filepath.Join(destDir, filepath.Base(filename))
	f, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	checksum, err := receiveRecords(conn, f, size, skey)
	if err != nil {
		return "", err
	}

	if err := writeRecord(conn, sealRecord(new(nonceCounter), rkey, buildTransitAck(hex.EncodeToString(checksum)))); err != nil {
		return "", err
	}
	return destPath, nil
}

// race tries every candidate outbound address concurrently and accepts
// inbound connections on listener at the same time; whichever handshake
// completes first wins and every other attempt is abandoned. Direct
// hints race ahead of relay hints implicitly, since they're dialed with
// the same timeout and a direct path is almost always faster to resolve.
func race(listener net.Listener, candidates []candidate, key [32]byte, sending bool) (net.Conn, [32]byte, [32]byte, error) {
	type result struct {
		conn net.Conn
		skey [32]byte
		rkey [32]byte
		err  error
	}
	results := make(chan result, len(candidates)+1)

	tryHandshake := func(conn net.Conn, viaRelay bool) {
		var skey, rkey [32]byte
		var err error
		if sending {
			skey, rkey, err = txHandshake(conn, key, viaRelay)
		} else {
			skey, rkey, err = rxHandshake(conn, key, viaRelay)
		}
		if err != nil {
			conn.Close()
			results <- result{err: err}
			return
		}
		if viaRelay {
			diag.Counters.RelayConnections.Add(1)
		} else {
			diag.Counters.DirectConnections.Add(1)
		}
		results <- result{conn: conn, skey: skey, rkey: rkey}
	}

	for _, c := range candidates {
		c := c
		go func() {
			conn, err := net.DialTimeout("tcp", c.addr, dialTimeout)
			if err != nil {
				results <- result{err: err}
				return
			}
			conn.SetDeadline(time.Now().Add(dialTimeout))
			tryHandshake(conn, c.viaRelay)
		}()
	}
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			results <- result{err: err}
			return
		}
		conn.SetDeadline(time.Now().Add(dialTimeout))
		tryHandshake(conn, false)
	}()

	total := len(candidates) + 1
	var lastErr error
	for i := 0; i < total; i++ {
		r := <-results
		if r.err == nil {
			// Every other candidate still racing may yet complete its
			// own dial and handshake; drain them in the background and
			// close any that succeed so the loser's socket doesn't
			// leak.
			if left := total - i - 1; left > 0 {
				go func(n int) {
					for j := 0; j < n; j++ {
						if late := <-results; late.conn != nil {
							late.conn.Close()
						}
					}
				}(left)
			}
			return r.conn, r.skey, r.rkey, nil
		}
		lastErr = r.err
	}
	if lastErr == nil {
		lastErr = errors.New("transit: no candidates to connect to")
	}
	return nil, [32]byte{}, [32]byte{}, fmt.Errorf("transit: could not establish a connection: %w", lastErr)
}

const recordPlaintextSize = 4096

// sendRecords streams r through the connection in encrypted chunks and
// returns the running SHA-256 of the plaintext.
func sendRecords(conn net.Conn, r io.Reader, skey [32]byte) ([]byte, error) {
	hasher := sha256.New()
	var counter nonceCounter
	buf := make([]byte, recordPlaintextSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
			sealed := sealRecord(&counter, skey, buf[:n])
			if werr := writeRecord(conn, sealed); werr != nil {
				return nil, werr
			}
			diag.Counters.BytesSent.Add(int64(n))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return hasher.Sum(nil), nil
}

// receiveRecords reads exactly size bytes worth of plaintext from conn's
// encrypted records, writing each into w, and returns the running
// SHA-256 of the plaintext.
func receiveRecords(conn net.Conn, w io.Writer, size int64, skey [32]byte) ([]byte, error) {
	hasher := sha256.New()
	var remaining int64 = size
	for remaining > 0 {
		packet, err := readRecord(conn)
		if err != nil {
			return nil, err
		}
		plaintext, err := openRecord(skey, packet)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(plaintext); err != nil {
			return nil, err
		}
		hasher.Write(plaintext)
		diag.Counters.BytesReceived.Add(int64(len(plaintext)))
		remaining -= int64(len(plaintext))
	}
	return hasher.Sum(nil), nil
}
