package main

import (
	"os"

	"github.com/fullstackacademy/academy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
