package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cbarrett/runsolo/internal/config"
	"github.com/cbarrett/runsolo/internal/guard"
)

func waitCmd(args []string) int {
	fs := flag.NewFlagSet("wait", flag.ExitOnError)
	configFile := fs.String("config", config.DefaultPath, "Path to config file")
	timeout := fs.Duration("timeout", 0, "Give up after this long (0 waits forever)")
	fs.Parse(args)

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if *timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), *timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	if err := guard.WaitForRelease(ctx, cfg.LockPath); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintln(os.Stderr, "Timed out waiting for the lock to be released")
		} else {
			fmt.Fprintf(os.Stderr, "Wait failed: %v\n", err)
		}
		return 1
	}

	fmt.Println("Lock released")
	return 0
}
