package main

import (
	"os"

	"github.com/truthlens/newsroom/config"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		os.Exit(1)
	}
}
