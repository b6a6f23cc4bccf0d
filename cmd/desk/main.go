package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"treasury-desk/internal/app"
	"treasury-desk/internal/config"
	"treasury-desk/internal/history"
	"treasury-desk/internal/log"
	"treasury-desk/internal/store"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "desk",
		Short:         "美债交易台行情回放",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径，默认使用 configs/config.yaml")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "加载行情文件并驱动全部服务",
			RunE:  runDesk,
		},
		&cobra.Command{
			Use:   "events",
			Short: "启动历史事件查询接口",
			RunE:  serveEvents,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// bootstrap 加载配置、日志与数据库，返回的 cleanup 负责逆序释放。
func bootstrap() (*config.Config, *zap.Logger, *store.Store, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := log.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	sqliteStore, err := store.NewSQLite(cfg.Database)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, nil, fmt.Errorf("初始化数据库失败: %w", err)
	}

	cleanup := func() {
		if closeErr := sqliteStore.Close(); closeErr != nil {
			logger.Warn("关闭数据库失败", zap.Error(closeErr))
		}
		_ = logger.Sync()
	}
	return cfg, logger, sqliteStore, cleanup, nil
}

func runDesk(cmd *cobra.Command, _ []string) error {
	cfg, logger, sqliteStore, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := app.New(cfg, logger, sqliteStore).Run(ctx); err != nil {
		logger.Error("系统运行异常", zap.Error(err))
		return err
	}

	logger.Info("系统已安全退出")
	return nil
}

func serveEvents(cmd *cobra.Command, _ []string) error {
	cfg, logger, sqliteStore, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	hist, err := history.NewService(sqliteStore, history.Config{}, logger.Named("history"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.ServeEvents(ctx, hist, cfg.Server.Port, logger.Named("events"))
}
