package app

import (
	"go.uber.org/zap"

	"treasury-desk/internal/booking"
	"treasury-desk/internal/config"
	"treasury-desk/internal/execution"
	"treasury-desk/internal/feed"
	"treasury-desk/internal/gui"
	"treasury-desk/internal/history"
	"treasury-desk/internal/inquiry"
	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/position"
	"treasury-desk/internal/pricing"
	"treasury-desk/internal/pubsub"
	"treasury-desk/internal/risk"
	"treasury-desk/internal/streaming"
)

// Graph 持有全部服务，并按固定顺序连接监听者。
type Graph struct {
	Pricing       *pricing.Service
	GUI           *gui.Service
	StreamingAlgo *streaming.AlgoService
	Streaming     *streaming.Service
	MarketData    *marketdata.Service
	ExecutionAlgo *execution.AlgoService
	Execution     *execution.Service
	Booking       *booking.Service
	Position      *position.Service
	Risk          *risk.Service
	Inquiry       *inquiry.Service
}

// NewGraph 创建服务并注册监听者，hist 为空时不记录历史。
//
// 注册顺序即通知顺序：
// 定价 → 界面、报价算法 → 报价流；界面与报价流经 connector 写入历史；
// 成交 → 持仓 → 历史、风险 → 历史；
// 行情 → 执行算法 → 执行 → 历史、成交；
// 询价 → 历史。
func NewGraph(cfg *config.Config, hist *history.Service, logger *zap.Logger) (*Graph, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	venue, err := execution.ParseMarket(cfg.Execution.Venue)
	if err != nil {
		return nil, err
	}
	algoCfg := execution.AlgoConfig{
		SpreadThreshold: cfg.Execution.SpreadThreshold,
		VisibleDivisor:  cfg.Execution.VisibleDivisor,
	}
	if err := algoCfg.Validate(); err != nil {
		return nil, err
	}

	var (
		guiSink    pubsub.Connector[pricing.Price]
		streamSink pubsub.Connector[streaming.PriceStream]
	)
	if hist != nil {
		guiSink = history.NewPriceRecorder(hist)
		streamSink = history.NewStreamRecorder(hist)
	}

	g := &Graph{
		Pricing: pricing.NewService(logger.Named("pricing")),
		GUI: gui.NewService(gui.Config{
			Throttle:   cfg.GUI.Throttle,
			MaxUpdates: cfg.GUI.MaxUpdates,
		}, guiSink, logger.Named("gui")),
		StreamingAlgo: streaming.NewAlgoService(streaming.AlgoConfig{
			VisibleQuantity: cfg.Streaming.VisibleQuantity,
			HiddenQuantity:  cfg.Streaming.HiddenQuantity,
		}, logger.Named("streaming_algo")),
		Streaming:     streaming.NewService(streamSink, logger.Named("streaming")),
		MarketData:    marketdata.NewService(logger.Named("marketdata")),
		ExecutionAlgo: execution.NewAlgoService(algoCfg, logger.Named("execution_algo")),
		Execution:     execution.NewService(venue, logger.Named("execution")),
		Booking:       booking.NewService(logger.Named("booking")),
		Position:      position.NewService(logger.Named("position")),
		Risk:          risk.NewService(logger.Named("risk")),
		Inquiry: inquiry.NewService(inquiry.Config{
			QuotePrice: cfg.Inquiry.QuotePrice,
			MaxReentry: cfg.Inquiry.ReentryLimit,
		}, logger.Named("inquiry")),
	}
	g.Pricing.AddListener(g.GUI.PriceListener())
	g.Pricing.AddListener(g.StreamingAlgo.PriceListener())
	g.StreamingAlgo.AddListener(g.Streaming.AlgoListener())

	if hist != nil {
		g.Position.AddListener(history.NewPositionRecorder(hist))
		g.Risk.AddListener(history.NewRiskRecorder(hist))
		g.Risk.AddBucketListener(history.NewBucketRecorder(hist))
	}
	g.Booking.AddListener(g.Position.TradeListener())
	g.Position.AddListener(g.Risk.PositionListener())

	g.MarketData.AddListener(g.ExecutionAlgo.OrderBookListener())
	g.ExecutionAlgo.AddListener(g.Execution.AlgoListener())
	if hist != nil {
		g.Execution.AddListener(history.NewExecutionRecorder(hist))
		g.Inquiry.AddListener(history.NewInquiryRecorder(hist))
	}
	g.Execution.AddListener(g.Booking.ExecutionListener())

	return g, nil
}

// Targets 返回各行情源对应的入口服务。
func (g *Graph) Targets() feed.Targets {
	return feed.Targets{
		Prices:    g.Pricing,
		Trades:    g.Booking,
		Market:    g.MarketData,
		Inquiries: g.Inquiry,
	}
}

// FeedPaths 把配置转换为行情文件路径。
func FeedPaths(cfg config.FeedsConfig) feed.Paths {
	return feed.Paths{
		Prices:      cfg.Prices,
		Trades:      cfg.Trades,
		Market:      cfg.Market,
		Inquiries:   cfg.Inquiries,
		MarketDepth: cfg.MarketDepth,
	}
}
