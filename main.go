package main

import (
	"os"

	"github.com/cocoonstack/pmicdbg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
