package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"reqbench/internal/banner"
	"reqbench/internal/cli"
	"reqbench/internal/logger"
	"reqbench/internal/runner"
	"reqbench/internal/storage"
	"reqbench/internal/transport"
	"reqbench/internal/tui"
)

const historyDisabled = "none"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "reqbench",
	Short: "reqbench - request-reply latency benchmark",
	Long: `
reqbench measures round-trip latency and throughput of a ZeroMQ REQ/REP endpoint.

It starts a fixed number of parallel clients, each sending a fixed number of
blocking requests, then prints per-client and averaged statistics and writes
the raw latencies of the last client to a file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromViper()
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

		opts := cli.Options{Log: log, Store: store}

		if viper.GetBool("tui") {
			return runTUI(cmd.Context(), cfg, opts)
		}
		_, err = cli.Start(cmd.Context(), cfg, opts)
		return err
	},
}

func Execute() {
	// Custom Help with Banner
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Println(banner.GetString())
		cmd.Usage()
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(dummyCmd, historyCmd, sweepCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.reqbench.yaml)")
	pf.StringP("endpoint", "e", runner.DefaultEndpoint, "Endpoint to benchmark (host:port or tcp://host:port)")
	pf.IntP("runs", "n", runner.DefaultRuns, "Timed requests per client")
	pf.Int("warmup", 0, "Untimed requests per client before timing starts")
	pf.String("payload", runner.DefaultPayload, "Request payload; {{clientID}} and {{uuid}} are expanded per client")
	pf.Int("reply-size", runner.DefaultReplySize, "Reply buffer size in bytes; longer replies are truncated")
	pf.String("history", "", "History database path (default is $HOME/.reqbench/history.db, \"none\" disables)")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console or json")

	f := rootCmd.Flags()
	f.IntP("clients", "c", runner.DefaultClients, "Number of parallel clients")
	f.StringP("output", "o", runner.DefaultOutputFile, "File receiving the raw latencies")
	f.Bool("merge-samples", false, "Write every client's latencies to the output file, not just the last client's")
	f.String("report", "", "Prefix for CSV and JSON reports")
	f.Bool("tui", false, "Show an interactive progress view")

	bindFlags(pf, "endpoint", "runs", "warmup", "payload", "reply-size", "history", "log-level", "log-format")
	bindFlags(f, "clients", "output", "merge-samples", "report", "tui")
}

func bindFlags(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		viper.BindPFlag(name, fs.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".reqbench")
		}
	}
	viper.SetEnvPrefix("REQBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

func configFromViper() runner.Config {
	return runner.Config{
		Endpoint:     transport.NormalizeEndpoint(viper.GetString("endpoint")),
		Runs:         viper.GetInt("runs"),
		Clients:      viper.GetInt("clients"),
		Warmup:       viper.GetInt("warmup"),
		Payload:      viper.GetString("payload"),
		ReplySize:    viper.GetInt("reply-size"),
		OutputFile:   viper.GetString("output"),
		MergeSamples: viper.GetBool("merge-samples"),
		OutPrefix:    viper.GetString("report"),
	}
}

func newLogger() (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:  viper.GetString("log-level"),
		Format: viper.GetString("log-format"),
	})
}

// openStore returns nil when history is disabled.
func openStore(log *zap.Logger) (*storage.Store, error) {
	path := viper.GetString("history")
	if path == historyDisabled {
		return nil, nil
	}
	if path == "" {
		p, err := storage.DefaultPath()
		if err != nil {
			log.Warn("history disabled, no home directory", zap.Error(err))
			return nil, nil
		}
		path = p
	}
	return storage.NewStore(path)
}

func runTUI(ctx context.Context, cfg runner.Config, opts cli.Options) error {
	// Log lines would tear the alternate screen, so the runner stays silent.
	r := runner.NewRunner(cfg, nil, nil, zap.NewNop())
	results, err := tui.Run(ctx, r)
	if err != nil {
		return err
	}
	_, err = cli.Finish(cfg, results, opts)
	return err
}
