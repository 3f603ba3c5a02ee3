package main

import (
	"fmt"
	"os"

	"aichess/ui"
)

func main() {
	if err := ui.RunAIChess(); err != nil {
		fmt.Fprintf(os.Stderr, "aichess: %v\n", err)
		os.Exit(1)
	}
}
