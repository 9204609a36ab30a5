package main

import (
	"fmt"
	"os"

	"github.com/zjrosen/soundpad/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "soundpad:", err)
		os.Exit(1)
	}
}
