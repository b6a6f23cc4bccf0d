package feed

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"treasury-desk/internal/booking"
	"treasury-desk/internal/inquiry"
	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/pricing"
)

// Ingester 为接收一条行情的服务入口。
type Ingester[V any] interface {
	OnMessage(v V) error
}

// Paths 为四个行情源文件，空路径表示跳过该源。
type Paths struct {
	Prices      string
	Trades      string
	Market      string
	Inquiries   string
	MarketDepth int
}

// Targets 为各行情源的接收服务。
type Targets struct {
	Prices    Ingester[pricing.Price]
	Trades    Ingester[booking.Trade]
	Market    Ingester[marketdata.OrderBook]
	Inquiries Ingester[inquiry.Inquiry]
}

// Summary 统计各源已分发的记录数。
type Summary struct {
	Prices    int
	Trades    int
	Books     int
	Inquiries int
}

// Loader 并发解析行情文件，再按价格、成交、盘口、询价的顺序逐条分发。
type Loader struct {
	paths  Paths
	logger *zap.Logger
}

// NewLoader 创建行情加载器。
func NewLoader(paths Paths, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{paths: paths, logger: logger}
}

// Run 解析全部行情源，任一源解析失败则不分发任何记录；分发中的第一个错误终止运行。
func (l *Loader) Run(ctx context.Context, targets Targets) (Summary, error) {
	var (
		summary   Summary
		prices    []pricing.Price
		trades    []booking.Trade
		books     []marketdata.OrderBook
		inquiries []inquiry.Inquiry
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		data, err := loadFile(groupCtx, l.paths.Prices, ParsePrices)
		if err != nil {
			return err
		}
		prices = data
		return nil
	})

	group.Go(func() error {
		data, err := loadFile(groupCtx, l.paths.Trades, ParseTrades)
		if err != nil {
			return err
		}
		trades = data
		return nil
	})

	group.Go(func() error {
		data, err := loadFile(groupCtx, l.paths.Market, func(r io.Reader) ([]marketdata.OrderBook, error) {
			return ParseMarket(r, l.paths.MarketDepth)
		})
		if err != nil {
			return err
		}
		books = data
		return nil
	})

	group.Go(func() error {
		data, err := loadFile(groupCtx, l.paths.Inquiries, ParseInquiries)
		if err != nil {
			return err
		}
		inquiries = data
		return nil
	})

	if err := group.Wait(); err != nil {
		return summary, err
	}

	var err error
	if summary.Prices, err = dispatch(ctx, l.logger, FeedPrices, prices, targets.Prices); err != nil {
		return summary, err
	}
	if summary.Trades, err = dispatch(ctx, l.logger, FeedTrades, trades, targets.Trades); err != nil {
		return summary, err
	}
	if summary.Books, err = dispatch(ctx, l.logger, FeedMarket, books, targets.Market); err != nil {
		return summary, err
	}
	if summary.Inquiries, err = dispatch(ctx, l.logger, FeedInquiries, inquiries, targets.Inquiries); err != nil {
		return summary, err
	}
	return summary, nil
}

func loadFile[V any](ctx context.Context, path string, parse func(io.Reader) ([]V, error)) ([]V, error) {
	if path == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: 打开 %s 失败: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}

func dispatch[V any](ctx context.Context, logger *zap.Logger, feed string, records []V, target Ingester[V]) (int, error) {
	if target == nil || len(records) == 0 {
		return 0, nil
	}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := target.OnMessage(rec); err != nil {
			return i, fmt.Errorf("feed: %s 第 %d 条记录处理失败: %w", feed, i+1, err)
		}
	}
	logger.Info("行情源分发完成", zap.String("feed", feed), zap.Int("records", len(records)))
	return len(records), nil
}
