package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/smartlayout-kit/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}
