package main

import (
	"os"

	"github.com/gonewx/softskills/cmd"
	"github.com/gonewx/softskills/pkg/embedded"
)

func main() {
	embedded.Init(dataFS)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
