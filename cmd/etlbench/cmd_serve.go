package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/etlbench/internal/infrastructure/config"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/logging"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/server"
)

func newServeCmd() *cobra.Command {
	var (
		port string
		mode string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the benchmark over HTTP",
		Long: `Starts the benchmark API. In demo mode (default) /benchmark returns a
fixed payload; in live mode every request runs the pipeline on the input
file, limited to sample_size rows, with results cached per dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(os.Getenv(config.FileEnv))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("mode") {
				cfg.Benchmark.Mode = mode
			}
			if cmd.Flags().Changed("dev") {
				cfg.Logging.Development = dev
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := logging.ForService(cfg.Logging)
			logger.Info("Go ETL benchmark service",
				zap.String("version", version),
				zap.String("mode", cfg.Benchmark.Mode),
			)

			return server.NewServer(cfg, logger).Run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVar(&port, "port", "8000", "Server port; overrides PORT")
	f.StringVar(&mode, "mode", config.ModeDemo, "Benchmark mode (demo or live); overrides BENCHMARK_MODE")
	f.BoolVar(&dev, "dev", false, "Development logging; overrides LOG_DEV")
	return cmd
}
