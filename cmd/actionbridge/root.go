package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/actionbridge"
	"github.com/aretw0/actionbridge/internal/config"
	"github.com/aretw0/actionbridge/internal/logging"
	"github.com/aretw0/actionbridge/internal/sample"
	"github.com/aretw0/actionbridge/pkg/script"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "actionbridge",
	Short: "Evaluate scripts of HTTP actions against an in-process application",
	Long: `actionbridge evaluates scripts whose router instructions are dispatched as
in-process HTTP requests. The bundled sample application serves generic
resources under /api so scripts have something to call.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file (default $"+config.EnvPath+")")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("executor", "", "Executor name used by scripts")
	flags.String("base-path", "", "Prefix prepended to every action path")
	flags.String("policy", "", "Response policy: default or body")
	flags.Bool("strict", true, "Reject extra properties next to instructions")
}

// settings loads the configuration file, applies flag overrides (including
// those only some subcommands define) and validates the result.
func settings(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	override := func(name string, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	override("log-level", &cfg.LogLevel)
	override("executor", &cfg.Executor)
	override("base-path", &cfg.BasePath)
	override("policy", &cfg.Policy)
	override("listen", &cfg.Listen)
	override("endpoint", &cfg.Endpoint)
	if cmd.Flags().Changed("strict") {
		cfg.Strict, _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Metrics, _ = cmd.Flags().GetBool("metrics")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.New(level), nil
}

// newBridge wires a bridge around the sample application.
func newBridge(cfg config.Config, logger *slog.Logger, extra ...actionbridge.Option) (*actionbridge.Bridge, error) {
	opts := []actionbridge.Option{
		actionbridge.WithExecutorName(cfg.Executor),
		actionbridge.WithBasePath(cfg.BasePath),
		actionbridge.WithPolicy(cfg.Policy),
		actionbridge.WithEngineOptions(script.WithStrict(cfg.Strict)),
		actionbridge.WithLogger(logger),
	}
	return actionbridge.New(sample.NewApp(), append(opts, extra...)...)
}
