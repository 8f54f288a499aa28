package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		// Bare invocation runs the guard; the launcher is meant to sit
		// directly in a crontab line with no arguments.
		os.Exit(runCmd(nil))
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runCmd(os.Args[2:]))
	case "status":
		os.Exit(statusCmd(os.Args[2:]))
	case "wait":
		os.Exit(waitCmd(os.Args[2:]))
	case "clean":
		os.Exit(cleanCmd(os.Args[2:]))
	case "version", "--version":
		fmt.Println(versionLine())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`runsolo - single-instance launcher for a collection job

Usage:
  runsolo [command] [flags]

Commands:
  run          Run the collector once, guarded by the lock (default)
  status       Show the current lock holder and recent runs
  wait         Block until the in-progress run releases the lock
  clean        Remove an orphaned lock marker (verifies holder is dead)
  version      Show version
  help         Show this message

A run that finds the lock already held logs a skip line and exits 0;
a concurrent run is not an error. Otherwise the collector's exit code
becomes runsolo's exit code.

Examples:
  # crontab entry
  */10 * * * * cd /srv/collector && runsolo

  # wait for the current run, then inspect it
  runsolo wait -timeout 30m && runsolo status

Run 'runsolo <command> -h' for details.`)
}
