package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cbarrett/runsolo/internal/collector"
	"github.com/cbarrett/runsolo/internal/config"
	"github.com/cbarrett/runsolo/internal/guard"
	"github.com/cbarrett/runsolo/internal/history"
	"github.com/cbarrett/runsolo/internal/joblog"
)

func runCmd(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configFile := fs.String("config", config.DefaultPath, "Path to config file")
	quiet := fs.Bool("quiet", false, "Suppress the run summary on stdout")
	fs.Parse(args)

	cfg, err := config.LoadAndValidate(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := joblog.Open(cfg.LogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Close()

	inv := collector.Invocation{
		Interpreter: cfg.Collector.Interpreter,
		Script:      cfg.Collector.Script,
		Args:        cfg.Collector.Args,
		Env:         cfg.Collector.Env,
		Dir:         cfg.Collector.Dir,
	}

	g := guard.New(cfg.LockPath, log, inv)
	g.EnableHistory(history.NewWriter(cfg.StateDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	res, err := g.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted; lock released, collector left to its own signal handling")
			return 1
		}
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		return 1
	}

	if res.Status == guard.StatusSkipped {
		if !*quiet {
			fmt.Printf("Run %s skipped: another run is in progress\n", res.RunID)
		}
		return 0
	}

	if !*quiet {
		fmt.Printf("Run %s finished, collector exit code %d\n", res.RunID, res.ExitCode)
	}
	return res.ExitCode
}
