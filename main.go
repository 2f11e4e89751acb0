package main

import (
	"os"

	"party-invites/core/logger"
	"party-invites/core/server"
)

func main() {
	if err := server.Run(os.Getenv("CONFIG_FILE")); err != nil {
		logger.Error("run server error", "error", err)
		os.Exit(1)
	}
}
