package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rongwang/finance-tracker-server/internal/config"
	"github.com/rongwang/finance-tracker-server/internal/utils"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger

	rootCmd = &cobra.Command{
		Use:               "finance-server",
		Short:             "Personal finance tracker API server",
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		RunE:              runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, JSON or TOML); environment variables override it")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	logger = utils.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	return nil
}
