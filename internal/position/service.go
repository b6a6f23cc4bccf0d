package position

import (
	"go.uber.org/zap"

	"treasury-desk/internal/booking"
	"treasury-desk/internal/product"
	"treasury-desk/internal/pubsub"
)

// Service 根据成交维护各产品分交易簿的持仓。
type Service struct {
	store  *pubsub.Store[string, Position]
	logger *zap.Logger
}

var _ pubsub.Service[string, Position] = (*Service)(nil)

// NewService 创建持仓服务，六个期限的国债以零持仓初始化。
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:  pubsub.NewStore[string, Position]("position"),
		logger: logger,
	}
	for _, tenor := range product.Tenors {
		bond := product.MustTreasury(tenor)
		s.store.Put(bond.ID(), Position{Product: bond})
	}
	return s
}

func (s *Service) GetData(productID string) (Position, error) {
	return s.store.Get(productID)
}

// OnMessage 覆盖产品持仓并通知监听者。
func (s *Service) OnMessage(p Position) error {
	s.store.Put(p.Product.ID(), p)
	return s.store.NotifyAdd(p)
}

// AddTrade 把交易叠加到产品当前持仓，未出现过的产品从零开始。
func (s *Service) AddTrade(t booking.Trade) error {
	current, err := s.store.Get(t.Product.ID())
	if err != nil {
		current = Position{Product: t.Product}
	}

	next, err := current.Apply(t)
	if err != nil {
		return err
	}

	s.logger.Debug("持仓更新",
		zap.String("product", t.Product.ID()),
		zap.String("book", string(t.Book)),
		zap.Int64("delta", t.SignedQuantity()),
		zap.Int64("aggregate", next.Aggregate()),
	)
	return s.OnMessage(next)
}

func (s *Service) AddListener(l pubsub.Listener[Position]) {
	s.store.AddListener(l)
}

func (s *Service) GetListeners() []pubsub.Listener[Position] {
	return s.store.Listeners()
}

// TradeListener 返回挂在交易登记服务上的监听者。
func (s *Service) TradeListener() pubsub.Listener[booking.Trade] {
	return pubsub.ListenerFuncs[booking.Trade]{Add: s.AddTrade}
}
