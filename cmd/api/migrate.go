package main

import (
	"errors"
	"fmt"
	"taskManager/internal/config"
	"taskManager/internal/logger"
	"taskManager/internal/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Миграции схемы PostgreSQL",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Применить все миграции",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		defer logger.Sync()
		return migrations.Up(url)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Откатить все миграции",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		defer logger.Sync()
		return migrations.Down(url)
	},
}

func databaseURL() (string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", fmt.Errorf("загрузка конфигурации: %w", err)
	}

	if err := logger.Init(cfg.Logging.Development, cfg.Logging.Level); err != nil {
		return "", fmt.Errorf("инициализация логгера: %w", err)
	}

	if cfg.Database.URL == "" {
		return "", errors.New("database.url не задан")
	}
	return cfg.Database.URL, nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
