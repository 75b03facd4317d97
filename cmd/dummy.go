package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reqbench/internal/dummy"
	"reqbench/internal/transport"
)

var dummyCfg = dummy.ServerConfig{
	Endpoint: "tcp://*:5555",
	Reply:    dummy.DefaultReply,
}

var dummyCmd = &cobra.Command{
	Use:   "dummy",
	Short: "Run a REP endpoint that answers every request with a fixed reply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg := dummyCfg
		cfg.Endpoint = transport.NormalizeEndpoint(cfg.Endpoint)
		srv, err := dummy.Start(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		fmt.Printf("👻 Dummy endpoint running on %s\n", srv.Endpoint())
		log.Info("dummy endpoint started",
			zap.String("endpoint", srv.Endpoint()),
			zap.Duration("delay", cfg.Delay),
			zap.Duration("jitter", cfg.Jitter),
		)

		<-cmd.Context().Done()
		err = srv.Close()
		fmt.Printf("served %d requests\n", srv.Requests())
		return err
	},
}

func init() {
	f := dummyCmd.Flags()
	f.StringVar(&dummyCfg.Endpoint, "bind", dummyCfg.Endpoint, "Endpoint to bind")
	f.StringVar(&dummyCfg.Reply, "reply", dummyCfg.Reply, "Reply sent for every request")
	f.DurationVar(&dummyCfg.Delay, "delay", 0, "Delay before each reply")
	f.DurationVar(&dummyCfg.Jitter, "jitter", 0, "Random extra delay, up to this much")
}
