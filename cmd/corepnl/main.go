package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/corepnl/pkg/config"
	"github.com/wyfcoding/corepnl/pkg/logger"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "corepnl",
		Short:         "Course and e-book storefront service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/storefront.toml", "config file path")
	root.AddCommand(newServeCommand(), newMigrateCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap 加载配置并初始化日志
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	err = logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	logger.Get().Info("config loaded", "service", cfg.ServiceName, "environment", cfg.Environment)
	return cfg, nil
}
