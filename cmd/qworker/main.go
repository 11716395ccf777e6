package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/qworker/runtime/orchestrator"
)

// exitInterrupted is the conventional exit status after SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, orchestrator.ErrInterrupted):
		fmt.Fprintln(os.Stderr, err)
		return exitInterrupted
	default:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}
