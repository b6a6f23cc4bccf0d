package execution

import (
	"go.uber.org/zap"

	"treasury-desk/internal/pubsub"
)

// Service 在指定场所执行委托，并原样转发给下游。
type Service struct {
	store  *pubsub.Store[string, ExecutionOrder]
	venue  Market
	logger *zap.Logger
}

var _ pubsub.Service[string, ExecutionOrder] = (*Service)(nil)

// NewService 创建执行服务，venue 为空时使用 CME。
func NewService(venue Market, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if venue == "" {
		venue = MarketCME
	}
	return &Service{
		store:  pubsub.NewStore[string, ExecutionOrder]("execution"),
		venue:  venue,
		logger: logger,
	}
}

func (s *Service) GetData(productID string) (ExecutionOrder, error) {
	return s.store.Get(productID)
}

// OnMessage 在默认场所执行委托。
func (s *Service) OnMessage(order ExecutionOrder) error {
	return s.ExecuteOrder(order, s.venue)
}

// ExecuteOrder 在给定场所执行委托，记录后通知监听者。
func (s *Service) ExecuteOrder(order ExecutionOrder, market Market) error {
	s.store.Put(order.Product.ID(), order)
	s.logger.Debug("执行委托",
		zap.String("product", order.Product.ID()),
		zap.String("order_id", order.OrderID),
		zap.String("venue", string(market)),
		zap.String("type", string(order.OrderType)),
	)
	return s.store.NotifyAdd(order)
}

// Venue 返回默认执行场所。
func (s *Service) Venue() Market {
	return s.venue
}

func (s *Service) AddListener(l pubsub.Listener[ExecutionOrder]) {
	s.store.AddListener(l)
}

func (s *Service) GetListeners() []pubsub.Listener[ExecutionOrder] {
	return s.store.Listeners()
}

// AlgoListener 返回挂在执行算法服务上的监听者。
func (s *Service) AlgoListener() pubsub.Listener[ExecutionOrder] {
	return pubsub.ListenerFuncs[ExecutionOrder]{Add: s.OnMessage}
}
