// Package diag exposes a small set of expvar counters for a running
// client or relay process and a gzip-compressed HTTP endpoint to read
// them from, grounded on cmd/ww/server.go's expvar usage and its
// gziphandler-wrapped static file server.
package diag

import (
	"expvar"
	"net/http"

	"github.com/NYTimes/gziphandler"
)

// Counters are the process-wide diagnostic counters this module bumps
// as sessions run. They are deliberately coarse: this is a debugging
// aid, not a metrics pipeline.
var Counters = struct {
	SessionsStarted  *expvar.Int
	SessionsHappy    *expvar.Int
	SessionsScared   *expvar.Int
	SessionsErrory   *expvar.Int
	NameplatesUsed   *expvar.Int
	BytesSent        *expvar.Int
	BytesReceived    *expvar.Int
	RelayConnections *expvar.Int
	DirectConnections *expvar.Int
}{
	SessionsStarted:   expvar.NewInt("sessionsStarted"),
	SessionsHappy:     expvar.NewInt("sessionsHappy"),
	SessionsScared:    expvar.NewInt("sessionsScared"),
	SessionsErrory:    expvar.NewInt("sessionsErrory"),
	NameplatesUsed:    expvar.NewInt("nameplatesUsed"),
	BytesSent:         expvar.NewInt("bytesSent"),
	BytesReceived:     expvar.NewInt("bytesReceived"),
	RelayConnections:  expvar.NewInt("relayConnections"),
	DirectConnections: expvar.NewInt("directConnections"),
}

// Handler returns the gzip-compressed expvar debug handler, meant to be
// mounted at a path like "/debug/vars" behind a flag such as
// "-debug-addr" rather than on by default.
func Handler() http.Handler {
	return gziphandler.GzipHandler(expvar.Handler())
}

// ListenAndServe starts a dedicated HTTP server for Handler on addr. It
// blocks, so callers typically run it in its own goroutine.
func ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, Handler())
}
