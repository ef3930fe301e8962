package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/etlbench/internal/console"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/config"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/logging"
	"github.com/GriffinCanCode/etlbench/internal/shared/paths"
)

// version is set at build time via -ldflags.
var version = "dev"

type pipelineFlags struct {
	input    string
	output   string
	prefix   string
	limit    int
	compress bool
}

func newRootCmd() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "etlbench",
		Short: "NYC taxi ETL benchmark",
		Long: "etlbench loads, cleans, aggregates, sorts and saves the NYC yellow taxi\n" +
			"trip dataset and reports how long each stage took.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			logger := logging.ForConsole(cfg.Logging)
			defer logger.Sync()

			code := console.New(cfg.Pipeline, cmd.OutOrStdout(), console.WithLogger(logger.Logger)).Run(cmd.Context())
			if code != console.ExitOK {
				return exitError{code: code}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.input, "input", "", "Input CSV (.csv or .csv.gz); overrides ETL_INPUT")
	f.StringVar(&flags.output, "output", "", "Results directory; overrides ETL_OUTPUT")
	f.StringVar(&flags.prefix, "prefix", "", "Result file prefix; overrides ETL_FILE_PREFIX")
	f.IntVar(&flags.limit, "limit", 0, "Read at most this many rows; overrides ETL_ROW_LIMIT")
	f.BoolVar(&flags.compress, "compress", false, "Gzip CSV results; overrides ETL_COMPRESS_OUTPUT")

	cmd.AddCommand(newServeCmd())
	return cmd
}

// loadConfig reads env and the optional config file, then applies the
// flags the user actually set.
func loadConfig(cmd *cobra.Command, flags pipelineFlags) (*config.Config, error) {
	cfg, err := config.LoadFile(os.Getenv(config.FileEnv))
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("input") {
		cfg.Pipeline.Input = flags.input
	}
	if f.Changed("output") {
		cfg.Pipeline.Output = flags.output
	}
	if f.Changed("prefix") {
		if err := paths.ValidatePrefix(flags.prefix); err != nil {
			return nil, err
		}
		cfg.Pipeline.Prefix = flags.prefix
	}
	if f.Changed("limit") {
		cfg.Pipeline.RowLimit = flags.limit
	}
	if f.Changed("compress") {
		cfg.Pipeline.Compress = flags.compress
	}
	return cfg, cfg.Validate()
}
