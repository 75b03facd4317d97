package cmd

import (
	"github.com/spf13/cobra"

	"reqbench/internal/cli"
)

var sweepCounts string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the benchmark once per client count and compare",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := cli.ParseCounts(sweepCounts)
		if err != nil {
			return err
		}
		cfg := configFromViper()
		cfg.Clients = counts[0]
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		store, err := openStore(log)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		_, err = cli.Sweep(cmd.Context(), cfg, counts, cli.Options{Log: log, Store: store})
		return err
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepCounts, "counts", "1,2,4,8", "Comma separated client counts")
}
