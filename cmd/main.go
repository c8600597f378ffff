package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/yungbote/placeshare-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer application.Shutdown(context.Background())

	if err := application.Run(ctx); err != nil {
		application.Log.Error("server exited", "error", err)
	}
}
