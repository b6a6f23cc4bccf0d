package inquiry

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"treasury-desk/internal/pubsub"
)

var (
	// ErrInvalidTransition 表示当前状态不允许该操作。
	ErrInvalidTransition = errors.New("invalid inquiry transition")
	// ErrReentryLimit 表示报价回环嵌套过深。
	ErrReentryLimit = errors.New("inquiry re-entry limit exceeded")
)

// Config 控制询价响应。
type Config struct {
	// QuotePrice 为自动报价使用的固定价格。
	QuotePrice float64
	// MaxReentry 为 OnMessage 允许的最大嵌套深度。
	MaxReentry int
}

// DefaultConfig 返回默认配置：报价 100，最多嵌套 4 层。
func DefaultConfig() Config {
	return Config{QuotePrice: 100, MaxReentry: 4}
}

// Service 驱动询价状态机，以询价编号为键。
//
// 收到 RECEIVED 询价时设置报价并迁移到 QUOTED，经 connector 发出；
// 默认 connector 把报价重新送回 OnMessage，QUOTED 随即迁移到 DONE。
// 这一回环是有意为之，嵌套深度受 MaxReentry 限制。
type Service struct {
	store     *pubsub.Store[string, Inquiry]
	connector pubsub.Connector[Inquiry]
	cfg       Config
	depth     int
	logger    *zap.Logger
}

var _ pubsub.Service[string, Inquiry] = (*Service)(nil)

// NewService 创建询价服务，默认使用回环 connector。
func NewService(cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxReentry <= 0 {
		cfg.MaxReentry = DefaultConfig().MaxReentry
	}
	s := &Service{
		store:  pubsub.NewStore[string, Inquiry]("inquiry"),
		cfg:    cfg,
		logger: logger,
	}
	s.connector = s.Loopback()
	return s
}

// SetConnector 替换报价出口，nil 恢复回环。
func (s *Service) SetConnector(c pubsub.Connector[Inquiry]) {
	if c == nil {
		c = s.Loopback()
	}
	s.connector = c
}

// Loopback 返回把报价重新送回本服务的 connector。
func (s *Service) Loopback() pubsub.Connector[Inquiry] {
	return pubsub.ConnectorFunc[Inquiry](s.OnMessage)
}

func (s *Service) GetData(inquiryID string) (Inquiry, error) {
	return s.store.Get(inquiryID)
}

// OnMessage 记录询价并通知监听者，然后按状态推进：
// QUOTED 迁移到 DONE 并再次通知；RECEIVED 报价后经 connector 发出；其余状态不再推进。
func (s *Service) OnMessage(q Inquiry) error {
	if !q.State.Valid() {
		return fmt.Errorf("inquiry: %s 状态 %q 非法: %w", q.InquiryID, q.State, ErrInvalidTransition)
	}
	if s.depth >= s.cfg.MaxReentry {
		return fmt.Errorf("inquiry: %s 嵌套深度 %d: %w", q.InquiryID, s.depth, ErrReentryLimit)
	}
	s.depth++
	defer func() { s.depth-- }()

	if err := s.put(q); err != nil {
		return err
	}

	switch q.State {
	case StateQuoted:
		done, err := q.transition(StateDone)
		if err != nil {
			return err
		}
		return s.put(done)
	case StateReceived:
		return s.quote(q, s.cfg.QuotePrice)
	default:
		return nil
	}
}

// SendQuote 以给定价格回复一笔 RECEIVED 询价。
func (s *Service) SendQuote(inquiryID string, price float64) error {
	q, err := s.store.Get(inquiryID)
	if err != nil {
		return err
	}
	return s.quote(q, price)
}

// RejectInquiry 拒绝一笔 RECEIVED 询价，只通知监听者，不再对外发出。
func (s *Service) RejectInquiry(inquiryID string) error {
	q, err := s.store.Get(inquiryID)
	if err != nil {
		return err
	}
	rejected, err := q.transition(StateRejected)
	if err != nil {
		return err
	}
	return s.put(rejected)
}

func (s *Service) quote(q Inquiry, price float64) error {
	quoted, err := q.transition(StateQuoted)
	if err != nil {
		return err
	}
	quoted.Price = price
	s.logger.Debug("发出报价",
		zap.String("inquiry_id", q.InquiryID),
		zap.String("product", q.Product.ID()),
		zap.Float64("price", price),
	)
	if err := s.connector.Publish(quoted); err != nil {
		return fmt.Errorf("inquiry: %s 发出报价失败: %w", q.InquiryID, err)
	}
	return nil
}

func (s *Service) put(q Inquiry) error {
	s.store.Put(q.InquiryID, q)
	s.logger.Debug("询价状态",
		zap.String("inquiry_id", q.InquiryID),
		zap.String("state", string(q.State)),
	)
	return s.store.NotifyAdd(q)
}

func (s *Service) AddListener(l pubsub.Listener[Inquiry]) {
	s.store.AddListener(l)
}

func (s *Service) GetListeners() []pubsub.Listener[Inquiry] {
	return s.store.Listeners()
}
