package main

import (
	"os"

	"github.com/zephyrtronium/intcalc/cmd/intcalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
