package main

import (
	"os"

	"github.com/padasch/french-nfi-dashboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
