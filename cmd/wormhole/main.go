// Command wormhole moves files and short messages between two
// computers over a Magic Wormhole rendezvous and transit connection.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"

	"rsc.io/qr"

	"github.com/webwormhole/wormhole/internal/diag"
	"github.com/webwormhole/wormhole/wormhole"
)

var subcmds = map[string]func(args ...string){
	"send":    send,
	"receive": receive,
	"pipe":    pipe,
}

var (
	appid        = flag.String("appid", "wormhole.example.org/default", "application id scoping the rendezvous namespace")
	relayserv    = flag.String("relay", "ws://relay.wormhole.example.org/v1", "rendezvous server websocket url")
	transitrelay = flag.String("transit-relay", "relay.wormhole.example.org:4001", "transit relay server host:port")
	debugaddr    = flag.String("debug-addr", "", "if set, serve expvar diagnostics on this address")
)

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "wormhole moves files and short messages between two computers.\n\n")
	fmt.Fprintf(w, "usage:\n\n")
	fmt.Fprintf(w, "  %s [flags] <command> [arguments]\n\n", os.Args[0])
	fmt.Fprintf(w, "commands:\n")
	for key := range subcmds {
		fmt.Fprintf(w, "  %s\n", key)
	}
	fmt.Fprintf(w, "\nflags:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	cmd, ok := subcmds[flag.Arg(0)]
	if !ok {
		flag.Usage()
		os.Exit(2)
	}
	if *debugaddr != "" {
		go func() { log.Println(diag.ListenAndServe(*debugaddr)) }()
	}
	cmd(flag.Args()...)
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintf(flag.CommandLine.Output(), format+"\n", v...)
	os.Exit(1)
}

// parseRelay splits a "host:port" transit relay address flag.
func parseRelay(s string) wormhole.RelayAddr {
	host, portstr, err := net.SplitHostPort(s)
	if err != nil {
		fatalf("bad -transit-relay address %q: %v", s, err)
	}
	port, err := strconv.Atoi(portstr)
	if err != nil {
		fatalf("bad -transit-relay port %q: %v", portstr, err)
	}
	return wormhole.RelayAddr{Host: host, Port: port}
}

// newClient either joins code, or allocates a fresh one and prints it,
// and blocks until the PAKE exchange has produced the session key.
func newClient(code string, words int) *wormhole.Client {
	c := wormhole.New(wormhole.AppID(*appid), *relayserv)
	if code != "" {
		c.SetCode(wormhole.Code(code))
	} else {
		c.AllocateCode(words)
		printcode(string(c.GetCode()))
	}
	c.GetVerifier() // block until the PAKE exchange completes
	return c
}

func printcode(code string) {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "%s\n", code)
	u, err := url.Parse(*relayserv)
	if err != nil {
		return
	}
	u.Fragment = code
	qrcode, err := qr.Encode(u.String(), qr.L)
	if err != nil {
		return
	}
	for x := 0; x < qrcode.Size; x++ {
		fmt.Fprintf(out, "█")
	}
	fmt.Fprintf(out, "████████\n")
	for x := 0; x < qrcode.Size; x++ {
		fmt.Fprintf(out, "█")
	}
	fmt.Fprintf(out, "████████\n")
	for y := 0; y < qrcode.Size; y += 2 {
		fmt.Fprintf(out, "████")
		for x := 0; x < qrcode.Size; x++ {
			switch {
			case qrcode.Black(x, y) && qrcode.Black(x, y+1):
				fmt.Fprintf(out, " ")
			case qrcode.Black(x, y):
				fmt.Fprintf(out, "▄")
			case qrcode.Black(x, y+1):
				fmt.Fprintf(out, "▀")
			default:
				fmt.Fprintf(out, "█")
			}
		}
		fmt.Fprintf(out, "████\n")
	}
	for x := 0; x < qrcode.Size; x++ {
		fmt.Fprintf(out, "█")
	}
	fmt.Fprintf(out, "████████\n")
	for x := 0; x < qrcode.Size; x++ {
		fmt.Fprintf(out, "█")
	}
	fmt.Fprintf(out, "████████\n")
	fmt.Fprintf(out, "%s\n", u.String())
}
