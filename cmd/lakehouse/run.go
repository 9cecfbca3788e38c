package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sparkify/lakehouse/config"
	"github.com/sparkify/lakehouse/etl"
	"github.com/sparkify/lakehouse/rate_limiter"
	"github.com/sparkify/lakehouse/storage"
	"github.com/sparkify/lakehouse/table"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags]",
		Short: "Run the ETL pipelines",
		RunE:  runRunCmd,
	}

	// Using Viper to bind flags
	cmd.Flags().String("config", config.DefaultConfigPath, "Path to the HCL config file")
	cmd.Flags().String("input", "", "Input location (overrides config)")
	cmd.Flags().String("output", "", "Output location (overrides config)")
	cmd.Flags().String("pipeline", "all", "Pipeline to run: songs, logs or all")
	viper.BindPFlag("config", cmd.Flags().Lookup("config"))
	viper.BindPFlag("input", cmd.Flags().Lookup("input"))
	viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	viper.BindPFlag("pipeline", cmd.Flags().Lookup("pipeline"))

	return cmd
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if input := viper.GetString("input"); input != "" {
		cfg.InputLocation = &input
	}
	if output := viper.GetString("output"); output != "" {
		cfg.OutputLocation = &output
	}

	inputStore, err := storage.OpenLocation(ctx, cfg.Input(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open input location %s: %w", cfg.Input(), err)
	}
	defer inputStore.Close()

	outputStore, err := storage.OpenLocation(ctx, cfg.Output(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open output location %s: %w", cfg.Output(), err)
	}
	defer outputStore.Close()

	limiter := rate_limiter.NewAPILimiter(rate_limiter.ObjectStoreDefaults("object_store"))
	engine := table.NewObjectStoreEngine(inputStore, limiter)
	pipelines := etl.New(engine, outputStore, limiter)

	switch pipeline := viper.GetString("pipeline"); pipeline {
	case "songs":
		return pipelines.ProcessSongData(ctx)
	case "logs":
		return pipelines.ProcessLogData(ctx)
	case "all":
		return pipelines.Run(ctx)
	default:
		return fmt.Errorf("invalid pipeline %q: expected songs, logs or all", pipeline)
	}
}
