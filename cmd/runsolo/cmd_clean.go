package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cbarrett/runsolo/internal/config"
	"github.com/cbarrett/runsolo/internal/guard"
)

// clean is the manual remediation for a lock marker orphaned by an
// ungraceful death of the guard (machine restart, SIGKILL). The guard
// itself never removes a lock it did not create.
func cleanCmd(args []string) int {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	configFile := fs.String("config", config.DefaultPath, "Path to config file")
	force := fs.Bool("force", false, "Remove the marker without checking the holder")
	fs.Parse(args)

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	lk, err := guard.ReadLock(cfg.LockPath)
	if err != nil {
		if !*force {
			fmt.Fprintf(os.Stderr, "%v\nRe-run with -force to remove it anyway\n", err)
			return 1
		}
	} else if lk == nil {
		fmt.Println("No lock marker present")
		return 0
	} else if !*force && guard.HolderAlive(lk) {
		fmt.Fprintf(os.Stderr, "Refusing to remove lock: pid %d is still alive (use 'runsolo wait')\n", lk.PID)
		return 1
	}

	if err := os.Remove(cfg.LockPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No lock marker present")
			return 0
		}
		fmt.Fprintf(os.Stderr, "Failed to remove lock marker: %v\n", err)
		return 1
	}

	fmt.Printf("Removed lock marker %s\n", cfg.LockPath)
	return 0
}
