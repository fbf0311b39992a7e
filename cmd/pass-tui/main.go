package main

import (
	"fmt"
	"os"

	"github.com/treykane/pass-tui/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pass-tui:", err)
		os.Exit(1)
	}
}
