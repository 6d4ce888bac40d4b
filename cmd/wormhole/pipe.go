package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// msgChunkSize bounds how much of stdin goes into a single mailbox
// phase message at a time.
const msgChunkSize = 32 << 10

func pipe(args ...string) {
	set := flag.NewFlagSet(args[0], flag.ExitOnError)
	set.Usage = func() {
		fmt.Fprintf(set.Output(), "netcat-like pipe over the mailbox\n\n")
		fmt.Fprintf(set.Output(), "usage: %s %s [code]\n\n", os.Args[0], args[0])
		fmt.Fprintf(set.Output(), "flags:\n")
		set.PrintDefaults()
	}
	length := set.Int("length", 2, "number of words in the generated code, if generating")
	set.Parse(args[1:])

	if set.NArg() > 1 {
		set.Usage()
		os.Exit(2)
	}
	c := newClient(set.Arg(0), *length)

	done := make(chan struct{})
	go func() {
		for {
			body, err := c.GetMessage()
			if err != nil {
				break
			}
			if _, err := os.Stdout.Write(body); err != nil {
				fatalf("could not write to stdout: %v", err)
			}
		}
		done <- struct{}{}
	}()
	go func() {
		buf := make([]byte, msgChunkSize)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				c.SendMessage(append([]byte(nil), buf[:n]...))
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				fatalf("could not read stdin: %v", err)
			}
		}
		done <- struct{}{}
	}()
	<-done
	c.Close()
}
