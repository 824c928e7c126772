package main

import (
	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
