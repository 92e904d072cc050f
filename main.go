package main

import (
	"os"

	"github.com/fol2/mathsquiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
