package gui

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"treasury-desk/internal/pricing"
	"treasury-desk/internal/pubsub"
)

// Config 控制界面输出节奏。
type Config struct {
	// Throttle 为两次输出之间的最小间隔，0 表示不限速。
	Throttle time.Duration
	// MaxUpdates 为最多输出的价格条数，0 表示不限制。
	MaxUpdates int
}

// Service 以限速方式把内部价格推送到界面输出端。
type Service struct {
	store     *pubsub.Store[string, pricing.Price]
	connector pubsub.Connector[pricing.Price]
	limiter   *rate.Limiter
	cfg       Config
	shown     int
	logger    *zap.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

var _ pubsub.Service[string, pricing.Price] = (*Service)(nil)

// NewService 创建界面服务，connector 为空时只计数不输出。
func NewService(cfg Config, connector pubsub.Connector[pricing.Price], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.Throttle > 0 {
		limit = rate.Every(cfg.Throttle)
	}
	return &Service{
		store:     pubsub.NewStore[string, pricing.Price]("gui"),
		connector: connector,
		limiter:   rate.NewLimiter(limit, 1),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

func (s *Service) GetData(productID string) (pricing.Price, error) {
	return s.store.Get(productID)
}

// OnMessage 在配额内等待限速器放行后输出价格，超出配额的更新直接丢弃。
func (s *Service) OnMessage(p pricing.Price) error {
	if s.cfg.MaxUpdates > 0 && s.shown >= s.cfg.MaxUpdates {
		if s.shown == s.cfg.MaxUpdates {
			s.logger.Info("界面输出已达上限", zap.Int("max_updates", s.cfg.MaxUpdates))
			s.shown++
		}
		return nil
	}

	now := s.now()
	if d := s.limiter.ReserveN(now, 1).DelayFrom(now); d > 0 {
		s.sleep(d)
	}

	s.store.Put(p.Product.ID(), p)
	if s.connector != nil {
		if err := s.connector.Publish(p); err != nil {
			return err
		}
	}
	s.shown++
	return s.store.NotifyAdd(p)
}

// Shown 返回已输出的更新条数。
func (s *Service) Shown() int {
	if s.cfg.MaxUpdates > 0 && s.shown > s.cfg.MaxUpdates {
		return s.cfg.MaxUpdates
	}
	return s.shown
}

func (s *Service) AddListener(l pubsub.Listener[pricing.Price]) {
	s.store.AddListener(l)
}

func (s *Service) GetListeners() []pubsub.Listener[pricing.Price] {
	return s.store.Listeners()
}

// PriceListener 返回挂在定价服务上的监听者。
func (s *Service) PriceListener() pubsub.Listener[pricing.Price] {
	return pubsub.ListenerFuncs[pricing.Price]{Add: s.OnMessage}
}
