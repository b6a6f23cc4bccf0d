package pricing

import (
	"go.uber.org/zap"

	"treasury-desk/internal/product"
	"treasury-desk/internal/pubsub"
)

// Price 为某产品的中间价与买卖价差快照。
type Price struct {
	Product        product.Bond
	Mid            float64
	BidOfferSpread float64
}

// Bid 返回买价，即中间价减半个价差。
func (p Price) Bid() float64 {
	return p.Mid - p.BidOfferSpread/2
}

// Offer 返回卖价，即中间价加半个价差。
func (p Price) Offer() float64 {
	return p.Mid + p.BidOfferSpread/2
}

// Service 管理各产品的内部价格，以产品标识为键。
type Service struct {
	store  *pubsub.Store[string, Price]
	logger *zap.Logger
}

var _ pubsub.Service[string, Price] = (*Service)(nil)

// NewService 创建定价服务。
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  pubsub.NewStore[string, Price]("pricing"),
		logger: logger,
	}
}

func (s *Service) GetData(productID string) (Price, error) {
	return s.store.Get(productID)
}

// OnMessage 覆盖产品的最新价格并通知监听者。
func (s *Service) OnMessage(p Price) error {
	s.store.Put(p.Product.ID(), p)
	s.logger.Debug("价格更新",
		zap.String("product", p.Product.ID()),
		zap.Float64("mid", p.Mid),
		zap.Float64("spread", p.BidOfferSpread),
	)
	return s.store.NotifyAdd(p)
}

func (s *Service) AddListener(l pubsub.Listener[Price]) {
	s.store.AddListener(l)
}

func (s *Service) GetListeners() []pubsub.Listener[Price] {
	return s.store.Listeners()
}
