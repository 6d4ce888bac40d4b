package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func send(args ...string) {
	set := flag.NewFlagSet(args[0], flag.ExitOnError)
	set.Usage = func() {
		fmt.Fprintf(set.Output(), "send a file\n\n")
		fmt.Fprintf(set.Output(), "usage: %s %s [file]\n\n", os.Args[0], args[0])
		fmt.Fprintf(set.Output(), "flags:\n")
		set.PrintDefaults()
	}
	length := set.Int("length", 2, "number of words in the generated code")
	code := set.String("code", "", "use a wormhole code instead of generating one")
	set.Parse(args[1:])

	if set.NArg() != 1 {
		set.Usage()
		os.Exit(2)
	}
	filename := set.Arg(0)
	if _, err := os.Stat(filename); err != nil {
		fatalf("could not stat file %s: %v", filename, err)
	}

	c := newClient(*code, *length)
	relay := parseRelay(*transitrelay)

	fmt.Fprintf(set.Output(), "sending %s... ", filepath.Base(filepath.Clean(filename)))
	if err := c.SendFile(filename, relay); err != nil {
		fatalf("\ncould not send file: %v", err)
	}
	fmt.Fprintf(set.Output(), "done\n")
	c.Close()
}
