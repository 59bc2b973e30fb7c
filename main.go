package main

import (
	"os"

	"github.com/appclacks/sloreport/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(2)
	}
}
