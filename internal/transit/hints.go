package transit

import "net"

// RelayAddr is a relay server's host and port, parsed by the embedder
// (cmd/wormhole reads it from a "host:port" flag).
type RelayAddr struct {
	Host string
	Port int
}

// localDirectHints enumerates this machine's non-loopback IPv4 addresses
// and pairs each with port, one hint per interface.
func localDirectHints(port int) []DirectHint {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	var hints []DirectHint
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		ip4 := ipnet.IP.To4()
		if ip4 == nil {
			continue
		}
		hints = append(hints, newDirectHint(ip4.String(), port))
	}
	return hints
}

func relayHint(relay RelayAddr) RelayHint {
	return RelayHint{
		Type:  "relay-v1",
		Hints: []DirectHint{newDirectHint(relay.Host, relay.Port)},
	}
}
