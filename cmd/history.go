package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reqbench/internal/report"
	"reqbench/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List past runs, or show one run by id or id prefix",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		store, err := openStore(log)
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("history is disabled")
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			items, err := store.List()
			if err != nil {
				return err
			}
			printHistory(out, items)
			return nil
		}

		item, err := store.Get(args[0])
		if err != nil {
			return err
		}
		printHistoryItem(out, item)
		return nil
	},
}

func printHistory(w io.Writer, items []storage.HistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	fmt.Fprintf(w, "%-8s  %-19s  %-28s %7s %6s %14s %12s\n",
		"ID", "TIME", "ENDPOINT", "CLIENTS", "RUNS", "AVG(ns)", "REQ/SEC")
	for _, it := range items {
		fmt.Fprintf(w, "%-8s  %-19s  %-28s %7d %6d %14.0f %12.2f\n",
			shortID(it.ID),
			it.Timestamp.Local().Format("2006-01-02 15:04:05"),
			it.Config.Endpoint,
			it.Summary.Clients,
			it.Config.Runs,
			it.Summary.AvgLatency,
			it.Summary.ReqSec,
		)
	}
}

func printHistoryItem(w io.Writer, it *storage.HistoryItem) {
	fmt.Fprintf(w, "Run      : %s\n", it.ID)
	fmt.Fprintf(w, "Time     : %s\n", it.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Endpoint : %s\n", it.Config.Endpoint)
	fmt.Fprintf(w, "Clients  : %d | Runs: %d | Warmup: %d\n", it.Config.Clients, it.Config.Runs, it.Config.Warmup)
	report.PrintSummary(w, it.Summary)

	rep := report.Report{SampleCount: it.Samples, MedianLatency: it.Median, Distribution: it.Latency}
	rep.PrintDistribution(w)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
