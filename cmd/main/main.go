package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/hvkleist/rosdep-arch-audit/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cmd.Execute(ctx)
}
