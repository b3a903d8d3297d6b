package main

import (
	"os"

	"github.com/pkanduri1/fabric-transform/cmd/fabric-transform/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
