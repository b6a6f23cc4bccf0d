package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"treasury-desk/internal/config"
	"treasury-desk/internal/feed"
	"treasury-desk/internal/history"
	"treasury-desk/internal/store"
)

// App 聚合核心依赖并驱动一次完整的行情回放。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 搭建服务图，加载全部行情源并同步处理完毕后返回。
// 任何一条记录处理失败都会终止运行并返回错误。
func (a *App) Run(ctx context.Context) (feed.Summary, error) {
	hist, err := history.NewService(a.store, history.Config{
		Dir:             a.cfg.Output.Dir,
		TimestampLayout: a.cfg.Output.TimestampLayout,
	}, a.logger.Named("history"))
	if err != nil {
		return feed.Summary{}, fmt.Errorf("初始化历史服务失败: %w", err)
	}
	defer func() {
		if closeErr := hist.Close(); closeErr != nil {
			a.logger.Warn("关闭历史输出失败", zap.Error(closeErr))
		}
	}()

	graph, err := NewGraph(a.cfg, hist, a.logger)
	if err != nil {
		return feed.Summary{}, fmt.Errorf("初始化服务失败: %w", err)
	}

	a.logger.Info("交易台已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("run_id", hist.RunID()),
		zap.String("venue", string(graph.Execution.Venue())),
		zap.String("output_dir", a.cfg.Output.Dir),
	)

	started := time.Now()
	summary, err := feed.NewLoader(FeedPaths(a.cfg.Feeds), a.logger.Named("feed")).Run(ctx, graph.Targets())
	if err != nil {
		return summary, fmt.Errorf("处理行情失败: %w", err)
	}

	a.logger.Info("行情处理完成",
		zap.String("run_id", hist.RunID()),
		zap.Int("prices", summary.Prices),
		zap.Int("trades", summary.Trades),
		zap.Int("books", summary.Books),
		zap.Int("inquiries", summary.Inquiries),
		zap.Int("gui_updates", graph.GUI.Shown()),
		zap.Duration("elapsed", time.Since(started)),
	)
	return summary, nil
}
