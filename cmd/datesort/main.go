package main

import (
	"fmt"
	"os"
)

// version приложения
const version = "v0.2.0"

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
