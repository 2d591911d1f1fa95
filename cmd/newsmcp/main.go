package main

import (
	"context"
	"fmt"
	"os"

	"news_mcp/internal/config"
	"news_mcp/internal/db"
	"news_mcp/internal/logger"

	"github.com/spf13/cobra"
)

// Задаётся через ldflags при сборке.
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "newsmcp",
		Short:        "MCP server exposing the fetch_news tool over a PostgreSQL article store",
		SilenceUsage: true,
		Version:      version,
	}
	root.SetVersionTemplate(fmt.Sprintf("newsmcp version %s\n", version))
	root.PersistentFlags().String("config", "", "Path to YAML config file (default: $"+config.ConfigPathEnv+")")

	root.AddCommand(
		newServeCmd(),
		newCheckCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsmcp version %s\n", version)
		},
	}
}

// loadConfig читает конфигурацию, применяет флаги команды поверх файла и окружения
// и проверяет результат.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("config load error: %w", err)
	}
	if f := cmd.Flags().Lookup("transport"); f != nil && f.Changed {
		cfg.Server.Transport = f.Value.String()
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Server.Addr = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setup загружает конфигурацию и направляет логи в stderr: stdout занят отчётом команды.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return cfg, nil
}

// openStore подключается к хранилищу. Закрывать его обязан вызывающий.
func openStore(ctx context.Context, cfg *config.Config) (*db.Database, error) {
	database := db.NewDB(cfg.Database.URL, cfg.Database.Table)
	if err := database.Connect(ctx); err != nil {
		return nil, err
	}
	return database, nil
}
