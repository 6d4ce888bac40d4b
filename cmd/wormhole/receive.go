package main

import (
	"flag"
	"fmt"
	"os"
)

func receive(args ...string) {
	set := flag.NewFlagSet(args[0], flag.ExitOnError)
	set.Usage = func() {
		fmt.Fprintf(set.Output(), "receive a file\n\n")
		fmt.Fprintf(set.Output(), "usage: %s %s [code]\n\n", os.Args[0], args[0])
		fmt.Fprintf(set.Output(), "flags:\n")
		set.PrintDefaults()
	}
	directory := set.String("dir", ".", "directory to put the downloaded file in")
	set.Parse(args[1:])

	if set.NArg() > 1 {
		set.Usage()
		os.Exit(2)
	}
	c := newClient(set.Arg(0), 2)
	relay := parseRelay(*transitrelay)

	fmt.Fprintf(set.Output(), "receiving... ")
	path, err := c.ReceiveFile(*directory, relay)
	if err != nil {
		fatalf("\ncould not receive file: %v", err)
	}
	fmt.Fprintf(set.Output(), "saved %s\n", path)
	c.Close()
}
