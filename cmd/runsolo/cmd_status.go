package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/cbarrett/runsolo/internal/config"
	"github.com/cbarrett/runsolo/internal/guard"
	"github.com/cbarrett/runsolo/internal/history"
)

const timeDisplayFormat = "2006-01-02 15:04:05"

func statusCmd(args []string) int {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configFile := fs.String("config", config.DefaultPath, "Path to config file")
	limit := fs.Int("n", 10, "Number of recent runs to show")
	fs.Parse(args)

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	printLockStatus(cfg.LockPath)

	records, err := history.NewWriter(cfg.StateDir).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read run history: %v\n", err)
		return 1
	}
	if len(records) == 0 {
		fmt.Println("No recorded runs")
		return 0
	}
	if *limit > 0 && len(records) > *limit {
		records = records[len(records)-*limit:]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Run", "PID", "Started", "Finished", "Status", "Exit")

	// Newest first
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		finished := "-"
		if r.CompletedAt != nil {
			finished = r.CompletedAt.Format(timeDisplayFormat)
		}
		exit := "-"
		if r.ExitCode != nil {
			exit = strconv.Itoa(*r.ExitCode)
		}
		table.Append([]string{
			r.RunID,
			strconv.Itoa(r.PID),
			r.StartedAt.Format(timeDisplayFormat),
			finished,
			string(r.Status),
			exit,
		})
	}

	table.Render()
	return 0
}

func printLockStatus(lockPath string) {
	lk, err := guard.ReadLock(lockPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		fmt.Println("Lock marker present but unreadable; see 'runsolo clean'")
		return
	}
	if lk == nil {
		fmt.Println("No run in progress (lock marker absent)")
		return
	}

	age := time.Since(lk.StartedAt).Round(time.Second)
	if guard.HolderAlive(lk) {
		fmt.Printf("Run %s in progress: pid %d on %s, started %s (%s ago)\n",
			lk.RunID, lk.PID, lk.Hostname, lk.StartedAt.Format(timeDisplayFormat), age)
		return
	}
	fmt.Printf("Orphaned lock: pid %d is gone, marker from %s (%s ago); run 'runsolo clean'\n",
		lk.PID, lk.StartedAt.Format(timeDisplayFormat), age)
}
