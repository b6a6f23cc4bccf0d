package marketdata

import (
	"sort"

	"go.uber.org/zap"

	"treasury-desk/internal/pubsub"
)

// Service 分发订单簿行情，以产品标识为键。
type Service struct {
	store  *pubsub.Store[string, OrderBook]
	logger *zap.Logger
}

var _ pubsub.Service[string, OrderBook] = (*Service)(nil)

// NewService 创建行情服务。
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  pubsub.NewStore[string, OrderBook]("marketdata"),
		logger: logger,
	}
}

func (s *Service) GetData(productID string) (OrderBook, error) {
	return s.store.Get(productID)
}

// OnMessage 替换产品的订单簿，并把未聚合的原始订单簿推送给监听者。
func (s *Service) OnMessage(book OrderBook) error {
	s.store.Put(book.Product.ID(), book)
	s.logger.Debug("订单簿更新",
		zap.String("product", book.Product.ID()),
		zap.Int("bids", len(book.BidStack)),
		zap.Int("offers", len(book.OfferStack)),
	)
	return s.store.NotifyAdd(book)
}

func (s *Service) AddListener(l pubsub.Listener[OrderBook]) {
	s.store.AddListener(l)
}

func (s *Service) GetListeners() []pubsub.Listener[OrderBook] {
	return s.store.Listeners()
}

// GetBestBidOffer 返回产品当前订单簿的最优买卖价。
func (s *Service) GetBestBidOffer(productID string) (BidOffer, error) {
	book, err := s.store.Get(productID)
	if err != nil {
		return BidOffer{}, err
	}
	return book.BestBidOffer(), nil
}

// AggregateDepth 把同一价格的多笔报价合并为一档，数量相加。
// 输出按买盘价格降序、卖盘价格升序排列。
func (s *Service) AggregateDepth(productID string) (OrderBook, error) {
	book, err := s.store.Get(productID)
	if err != nil {
		return OrderBook{}, err
	}
	return OrderBook{
		Product:    book.Product,
		BidStack:   aggregateSide(book.BidStack, SideBid),
		OfferStack: aggregateSide(book.OfferStack, SideOffer),
	}, nil
}

func aggregateSide(orders []Order, side Side) []Order {
	levels := make(map[float64]int64, len(orders))
	for _, o := range orders {
		levels[o.Price] += o.Quantity
	}

	out := make([]Order, 0, len(levels))
	for price, qty := range levels {
		out = append(out, Order{Price: price, Quantity: qty, Side: side})
	}

	sort.Slice(out, func(i, j int) bool {
		if side == SideBid {
			return out[i].Price > out[j].Price
		}
		return out[i].Price < out[j].Price
	})
	return out
}
