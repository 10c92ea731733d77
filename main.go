package main

import (
	"os"

	"github.com/tovald/linkdrop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
