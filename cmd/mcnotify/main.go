// mcnotify - player join notifications for a Minecraft server
package main

import (
	"os"

	"github.com/rescale/mcnotify/internal/cli"
	"github.com/rescale/mcnotify/internal/version"
)

// Version information, set by ldflags:
//
//	go build -ldflags "-X main.Version=v0.3.0 -X main.BuildTime=$(date -u +%F)" ./cmd/mcnotify
var (
	Version   = "v0.3.0-dev"
	BuildTime = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
