package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	apiadmission "github.com/kilianp07/fleetops/api/admission"
	"github.com/kilianp07/fleetops/app"
	"github.com/kilianp07/fleetops/config"
	"github.com/kilianp07/fleetops/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "fleetops",
	Short: "Fleet mission admission service",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// A missing .env is fine: the environment is used as is.
		_ = godotenv.Load()
	},
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (defaults and K_ environment when empty)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx, apiadmission.NewRouter(svc, cfg.HTTP.Token))
}
