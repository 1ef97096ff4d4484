package main

import (
	"fmt"
	"os"

	"github.com/leeineian/maronn/cmd"
)

func main() {
	// LogFatal panics so deferred cleanup runs before exit.
	defer func() {
		if r := recover(); r != nil {
			if msg, ok := r.(string); ok {
				fmt.Fprintf(os.Stderr, "\n[FATAL] %s\n", msg)
				os.Exit(1)
			}
			panic(r)
		}
	}()

	cmd.Execute()
}
