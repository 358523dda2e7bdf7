package main

import (
	"fmt"
	"os"

	"github.com/quietbloom/tend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
