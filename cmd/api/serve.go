package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"taskManager/internal/app"
	"taskManager/internal/config"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запуск HTTP сервера",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("загрузка конфигурации: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application := app.New(cfg)
		if err := application.Init(ctx); err != nil {
			application.Shutdown()
			return err
		}

		return application.Run(ctx)
	},
}
