package streaming

import (
	"go.uber.org/zap"

	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/pricing"
	"treasury-desk/internal/pubsub"
)

// AlgoConfig 指定每侧报价的可见与隐藏数量。
type AlgoConfig struct {
	VisibleQuantity int64
	HiddenQuantity  int64
}

// DefaultAlgoConfig 返回默认报价数量：可见 1,000,000，隐藏 2,000,000。
func DefaultAlgoConfig() AlgoConfig {
	return AlgoConfig{VisibleQuantity: 1_000_000, HiddenQuantity: 2_000_000}
}

// AlgoService 把内部价格转换为双边报价流。
type AlgoService struct {
	store  *pubsub.Store[string, PriceStream]
	cfg    AlgoConfig
	logger *zap.Logger
}

var _ pubsub.Service[string, PriceStream] = (*AlgoService)(nil)

// NewAlgoService 创建报价算法服务。
func NewAlgoService(cfg AlgoConfig, logger *zap.Logger) *AlgoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlgoService{
		store:  pubsub.NewStore[string, PriceStream]("streaming_algo"),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *AlgoService) GetData(productID string) (PriceStream, error) {
	return s.store.Get(productID)
}

// OnMessage 记录报价流并通知监听者。
func (s *AlgoService) OnMessage(ps PriceStream) error {
	s.store.Put(ps.Product.ID(), ps)
	return s.store.NotifyAdd(ps)
}

func (s *AlgoService) AddListener(l pubsub.Listener[PriceStream]) {
	s.store.AddListener(l)
}

func (s *AlgoService) GetListeners() []pubsub.Listener[PriceStream] {
	return s.store.Listeners()
}

// PublishPrice 以中间价上下各半个价差生成双边报价并发布。
func (s *AlgoService) PublishPrice(p pricing.Price) error {
	ps := PriceStream{
		Product: p.Product,
		Bid: Order{
			Price:           p.Bid(),
			VisibleQuantity: s.cfg.VisibleQuantity,
			HiddenQuantity:  s.cfg.HiddenQuantity,
			Side:            marketdata.SideBid,
		},
		Offer: Order{
			Price:           p.Offer(),
			VisibleQuantity: s.cfg.VisibleQuantity,
			HiddenQuantity:  s.cfg.HiddenQuantity,
			Side:            marketdata.SideOffer,
		},
	}
	s.logger.Debug("生成报价流",
		zap.String("product", p.Product.ID()),
		zap.Float64("bid", ps.Bid.Price),
		zap.Float64("offer", ps.Offer.Price),
	)
	return s.OnMessage(ps)
}

// PriceListener 返回挂在定价服务上的监听者。
func (s *AlgoService) PriceListener() pubsub.Listener[pricing.Price] {
	return pubsub.ListenerFuncs[pricing.Price]{Add: s.PublishPrice}
}
