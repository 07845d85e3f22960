// Command server runs the Baloria backend: HTTP API, websocket hub and
// background jobs.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/baloria-app/baloria-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
