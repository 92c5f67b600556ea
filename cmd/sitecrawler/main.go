package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sitecrawler/cmd/sitecrawler/app"
	"sitecrawler/internal/pacing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	httpClient := &http.Client{}

	clock := pacing.NewClock()

	err := app.Run(ctx, os.Args, os.Stdout, os.Stderr, httpClient, clock)
	stop()

	if err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
