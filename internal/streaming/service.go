package streaming

import (
	"fmt"

	"go.uber.org/zap"

	"treasury-desk/internal/pubsub"
)

// Service 对外发布报价流，并向下游监听者转发。
type Service struct {
	store     *pubsub.Store[string, PriceStream]
	connector pubsub.Connector[PriceStream]
	logger    *zap.Logger
}

var _ pubsub.Service[string, PriceStream] = (*Service)(nil)

// NewService 创建报价流服务，connector 可为空。
func NewService(connector pubsub.Connector[PriceStream], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     pubsub.NewStore[string, PriceStream]("streaming"),
		connector: connector,
		logger:    logger,
	}
}

func (s *Service) GetData(productID string) (PriceStream, error) {
	return s.store.Get(productID)
}

// OnMessage 记录报价流，经 connector 发布后通知监听者。
func (s *Service) OnMessage(ps PriceStream) error {
	s.store.Put(ps.Product.ID(), ps)
	if err := s.PublishPrice(ps); err != nil {
		return err
	}
	return s.store.NotifyAdd(ps)
}

// PublishPrice 把报价流写到外部出口。
func (s *Service) PublishPrice(ps PriceStream) error {
	if s.connector == nil {
		return nil
	}
	if err := s.connector.Publish(ps); err != nil {
		return fmt.Errorf("streaming: 发布报价 %s 失败: %w", ps.Product.ID(), err)
	}
	return nil
}

func (s *Service) AddListener(l pubsub.Listener[PriceStream]) {
	s.store.AddListener(l)
}

func (s *Service) GetListeners() []pubsub.Listener[PriceStream] {
	return s.store.Listeners()
}

// AlgoListener 返回挂在报价算法服务上的监听者。
func (s *Service) AlgoListener() pubsub.Listener[PriceStream] {
	return pubsub.ListenerFuncs[PriceStream]{Add: s.OnMessage}
}
