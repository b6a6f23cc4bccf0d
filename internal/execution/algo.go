package execution

import (
	"errors"
	"strconv"

	"go.uber.org/zap"

	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/pubsub"
)

// AlgoConfig 控制价差触发算法。
type AlgoConfig struct {
	// SpreadThreshold 为触发下单的价差上限（严格小于）。
	SpreadThreshold float64
	// VisibleDivisor 决定可见数量为盘口数量的几分之一。
	VisibleDivisor int64
}

// DefaultAlgoConfig 返回默认参数：价差小于 1/32 时触发，可见三分之一。
func DefaultAlgoConfig() AlgoConfig {
	return AlgoConfig{SpreadThreshold: 1.0 / 32, VisibleDivisor: 3}
}

// AlgoService 监听原始订单簿，价差足够窄时生成一对执行委托。
type AlgoService struct {
	store  *pubsub.Store[string, ExecutionOrder]
	cfg    AlgoConfig
	seq    int64
	logger *zap.Logger
}

var _ pubsub.Service[string, ExecutionOrder] = (*AlgoService)(nil)

// NewAlgoService 创建执行算法服务。
func NewAlgoService(cfg AlgoConfig, logger *zap.Logger) *AlgoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.VisibleDivisor <= 0 {
		cfg.VisibleDivisor = DefaultAlgoConfig().VisibleDivisor
	}
	return &AlgoService{
		store:  pubsub.NewStore[string, ExecutionOrder]("execution_algo"),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *AlgoService) GetData(productID string) (ExecutionOrder, error) {
	return s.store.Get(productID)
}

// OnMessage 记录委托并通知监听者。
func (s *AlgoService) OnMessage(order ExecutionOrder) error {
	s.store.Put(order.Product.ID(), order)
	return s.store.NotifyAdd(order)
}

func (s *AlgoService) AddListener(l pubsub.Listener[ExecutionOrder]) {
	s.store.AddListener(l)
}

func (s *AlgoService) GetListeners() []pubsub.Listener[ExecutionOrder] {
	return s.store.Listeners()
}

// ProcessOrderBook 计算最优买卖价，价差低于阈值时依次发出两笔委托：
// 在买价上卖出、在卖价上买入，数量按盘口数量拆分为可见和隐藏两部分。
func (s *AlgoService) ProcessOrderBook(book marketdata.OrderBook) error {
	best := book.BestBidOffer()
	if best.Bid.IsZero() || best.Offer.IsZero() {
		s.logger.Debug("盘口单边为空，跳过", zap.String("product", book.Product.ID()))
		return nil
	}
	if best.Spread() >= s.cfg.SpreadThreshold {
		return nil
	}

	orders := []ExecutionOrder{
		s.buildOrder(book, marketdata.SideOffer, best.Bid),
		s.buildOrder(book, marketdata.SideBid, best.Offer),
	}
	for _, order := range orders {
		s.logger.Debug("生成执行委托",
			zap.String("product", order.Product.ID()),
			zap.String("order_id", order.OrderID),
			zap.String("side", string(order.Side)),
			zap.Float64("price", order.Price),
			zap.Int64("visible", order.VisibleQuantity),
			zap.Int64("hidden", order.HiddenQuantity),
		)
		if err := s.OnMessage(order); err != nil {
			return err
		}
	}
	return nil
}

func (s *AlgoService) buildOrder(book marketdata.OrderBook, side marketdata.Side, level marketdata.Order) ExecutionOrder {
	s.seq++
	id := strconv.FormatInt(s.seq, 10)
	visible := level.Quantity / s.cfg.VisibleDivisor
	return ExecutionOrder{
		Product:         book.Product,
		Side:            side,
		OrderID:         id,
		OrderType:       OrderTypeMarket,
		Price:           level.Price,
		VisibleQuantity: visible,
		HiddenQuantity:  level.Quantity - visible,
		ParentOrderID:   id,
		IsChildOrder:    false,
	}
}

// OrderBookListener 返回挂在行情服务上的监听者。
func (s *AlgoService) OrderBookListener() pubsub.Listener[marketdata.OrderBook] {
	return pubsub.ListenerFuncs[marketdata.OrderBook]{Add: s.ProcessOrderBook}
}

// Validate 检查算法参数。
func (c AlgoConfig) Validate() error {
	if c.SpreadThreshold <= 0 {
		return errors.New("execution: spread_threshold 必须大于 0")
	}
	if c.VisibleDivisor <= 0 {
		return errors.New("execution: visible_divisor 必须大于 0")
	}
	return nil
}
