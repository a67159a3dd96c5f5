package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirkon/protoguard/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()

	if err == nil {
		return
	}
	if !errors.Is(err, cli.ErrViolations) {
		_, _ = fmt.Fprintln(os.Stderr, "protoguard:", err)
	}
	os.Exit(1)
}
