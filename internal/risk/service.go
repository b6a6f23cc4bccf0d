package risk

import (
	"go.uber.org/zap"

	"treasury-desk/internal/position"
	"treasury-desk/internal/product"
	"treasury-desk/internal/pubsub"
)

// Service 根据持仓计算单产品 PV01，并按分组汇总风险。
type Service struct {
	store   *pubsub.Store[string, PV01[product.Bond]]
	buckets *pubsub.Store[string, PV01[BucketedSector]]
	logger  *zap.Logger
}

var _ pubsub.Service[string, PV01[product.Bond]] = (*Service)(nil)

// NewService 创建风险服务，六个期限以零数量的 PV01 初始化。
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:   pubsub.NewStore[string, PV01[product.Bond]]("risk"),
		buckets: pubsub.NewStore[string, PV01[BucketedSector]]("risk_bucket"),
		logger:  logger,
	}
	for _, tenor := range product.Tenors {
		bond := product.MustTreasury(tenor)
		s.store.Put(tenor, PV01[product.Bond]{Product: bond, PV01: pv01PerUnit[tenor]})
	}
	return s
}

func (s *Service) GetData(productID string) (PV01[product.Bond], error) {
	return s.store.Get(productID)
}

// OnMessage 覆盖产品 PV01 并通知监听者。
func (s *Service) OnMessage(p PV01[product.Bond]) error {
	s.store.Put(p.Product.ID(), p)
	return s.store.NotifyAdd(p)
}

// AddPosition 以单位 PV01 乘以总持仓更新产品风险。
func (s *Service) AddPosition(p position.Position) error {
	unit, err := PV01PerUnit(p.Product.ID())
	if err != nil {
		return err
	}
	pv := PV01[product.Bond]{Product: p.Product, PV01: unit, Quantity: p.Aggregate()}
	s.logger.Debug("PV01 更新",
		zap.String("product", p.Product.ID()),
		zap.Int64("quantity", pv.Quantity),
		zap.Float64("value", pv.Value()),
	)
	return s.OnMessage(pv)
}

// AddPositionBucket 重新计算持仓所在分组的风险并通知分组监听者。
func (s *Service) AddPositionBucket(p position.Position) error {
	sector, err := SectorFor(p.Product.ID())
	if err != nil {
		return err
	}
	bucket, err := s.GetBucketedRisk(sector)
	if err != nil {
		return err
	}
	s.buckets.Put(sector.Name, bucket)
	s.logger.Debug("分组风险更新",
		zap.String("sector", sector.Name),
		zap.Int64("quantity", bucket.Quantity),
		zap.Float64("pv01", bucket.PV01),
	)
	return s.buckets.NotifyAdd(bucket)
}

// GetBucketedRisk 对分组内每个产品当前存储的 PV01 求和：
// PV01 字段为 Σ 单位PV01×数量，Quantity 为数量之和。
func (s *Service) GetBucketedRisk(sector BucketedSector) (PV01[BucketedSector], error) {
	out := PV01[BucketedSector]{Product: sector}
	for _, bond := range sector.Products {
		pv, err := s.store.Get(bond.ID())
		if err != nil {
			return PV01[BucketedSector]{}, err
		}
		out.PV01 += pv.Value()
		out.Quantity += pv.Quantity
	}
	return out, nil
}

// GetBucketData 返回最近一次通知的分组风险。
func (s *Service) GetBucketData(name string) (PV01[BucketedSector], error) {
	return s.buckets.Get(name)
}

func (s *Service) AddListener(l pubsub.Listener[PV01[product.Bond]]) {
	s.store.AddListener(l)
}

func (s *Service) GetListeners() []pubsub.Listener[PV01[product.Bond]] {
	return s.store.Listeners()
}

// AddBucketListener 注册分组风险监听者。
func (s *Service) AddBucketListener(l pubsub.Listener[PV01[BucketedSector]]) {
	s.buckets.AddListener(l)
}

// GetBucketListeners 返回分组风险监听者。
func (s *Service) GetBucketListeners() []pubsub.Listener[PV01[BucketedSector]] {
	return s.buckets.Listeners()
}

// PositionListener 返回挂在持仓服务上的监听者，先更新产品风险再更新分组风险。
func (s *Service) PositionListener() pubsub.Listener[position.Position] {
	return pubsub.ListenerFuncs[position.Position]{Add: func(p position.Position) error {
		if err := s.AddPosition(p); err != nil {
			return err
		}
		return s.AddPositionBucket(p)
	}}
}
