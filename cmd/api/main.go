package main

import (
	"context"
	"log"

	"github.com/casira/connect/internal/server"
)

func main() {
	ctx := context.Background()

	app, cleanup, err := server.InitializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	// log.Fatal skips defers, so release the pool first
	err = app.Run(ctx)
	cleanup()
	if err != nil {
		log.Fatalf("Failed to run app: %v", err)
	}
}
