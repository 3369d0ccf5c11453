// Command server runs the lecture-feedback HTTP API.
//
// Exit codes: 0 = clean shutdown, 1 = startup or runtime error.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/moritahr/lecfeed-backend/internal/app"
)

func main() {
	// Local development convenience; absence of a .env file is not an error.
	_ = godotenv.Load()

	if err := app.Run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
