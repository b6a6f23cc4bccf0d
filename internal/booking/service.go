package booking

import (
	"strconv"

	"go.uber.org/zap"

	"treasury-desk/internal/execution"
	"treasury-desk/internal/pubsub"
)

// Service 记录成交，以产品标识为键只保留最近一笔。
type Service struct {
	store  *pubsub.Store[string, Trade]
	seq    int64
	logger *zap.Logger
}

var _ pubsub.Service[string, Trade] = (*Service)(nil)

// NewService 创建交易登记服务。
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  pubsub.NewStore[string, Trade]("booking"),
		logger: logger,
	}
}

func (s *Service) GetData(productID string) (Trade, error) {
	return s.store.Get(productID)
}

// OnMessage 登记一笔交易。
func (s *Service) OnMessage(t Trade) error {
	return s.BookTrade(t)
}

// BookTrade 记录交易并通知监听者。
func (s *Service) BookTrade(t Trade) error {
	s.store.Put(t.Product.ID(), t)
	s.logger.Debug("登记交易",
		zap.String("product", t.Product.ID()),
		zap.String("trade_id", t.TradeID),
		zap.String("book", string(t.Book)),
		zap.String("side", string(t.Side)),
		zap.Int64("quantity", t.Quantity),
	)
	return s.store.NotifyAdd(t)
}

// BookExecution 把执行委托登记为交易，交易编号为 "M<序号>"，序号从 1 开始，
// 交易簿按序号对 3 取模轮转。
func (s *Service) BookExecution(order execution.ExecutionOrder) error {
	s.seq++
	book := Books[s.seq%int64(len(Books))]
	return s.BookTrade(FromExecution(order, "M"+strconv.FormatInt(s.seq, 10), book))
}

func (s *Service) AddListener(l pubsub.Listener[Trade]) {
	s.store.AddListener(l)
}

func (s *Service) GetListeners() []pubsub.Listener[Trade] {
	return s.store.Listeners()
}

// ExecutionListener 返回挂在执行服务上的监听者。
func (s *Service) ExecutionListener() pubsub.Listener[execution.ExecutionOrder] {
	return pubsub.ListenerFuncs[execution.ExecutionOrder]{Add: s.BookExecution}
}
