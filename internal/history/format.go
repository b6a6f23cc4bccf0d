package history

import (
	"strconv"
	"strings"

	"treasury-desk/internal/execution"
	"treasury-desk/internal/inquiry"
	"treasury-desk/internal/position"
	"treasury-desk/internal/pricefrac"
	"treasury-desk/internal/pricing"
	"treasury-desk/internal/product"
	"treasury-desk/internal/risk"
	"treasury-desk/internal/streaming"
)

func join(fields ...string) string {
	return strings.Join(fields, ",")
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// PriceLines 输出产品, 中间价, 价差。
func PriceLines(p pricing.Price) []string {
	return []string{join(p.Product.ID(), pricefrac.Encode(p.Mid), pricefrac.Encode(p.BidOfferSpread))}
}

// StreamLines 为买卖两侧各输出一行：产品, 价格, 可见数量, 隐藏数量, 方向。
func StreamLines(ps streaming.PriceStream) []string {
	line := func(o streaming.Order) string {
		return join(ps.Product.ID(), ftoa(o.Price), itoa(o.VisibleQuantity), itoa(o.HiddenQuantity), string(o.Side))
	}
	return []string{line(ps.Bid), line(ps.Offer)}
}

// PositionLines 输出产品, 三个交易簿持仓, 总持仓。
func PositionLines(p position.Position) []string {
	fields := []string{p.Product.ID()}
	for _, q := range p.Books {
		fields = append(fields, itoa(q))
	}
	fields = append(fields, itoa(p.Aggregate()))
	return []string{join(fields...)}
}

// RiskLines 输出产品, 单位 PV01, 数量。
func RiskLines(pv risk.PV01[product.Bond]) []string {
	return []string{join(pv.Product.ID(), ftoa(pv.PV01), itoa(pv.Quantity))}
}

// BucketLines 输出分组, PV01 合计, 数量合计。
func BucketLines(pv risk.PV01[risk.BucketedSector]) []string {
	return []string{join(pv.Product.Name, ftoa(pv.PV01), itoa(pv.Quantity))}
}

// ExecutionLines 输出委托的全部字段。
func ExecutionLines(o execution.ExecutionOrder) []string {
	return []string{join(
		o.Product.ID(),
		string(o.Side),
		o.OrderID,
		string(o.OrderType),
		ftoa(o.Price),
		itoa(o.VisibleQuantity),
		itoa(o.HiddenQuantity),
		o.ParentOrderID,
		strings.ToUpper(strconv.FormatBool(o.IsChildOrder)),
	)}
}

// InquiryLines 输出询价编号, 产品, 方向, 数量, 价格, 状态。
func InquiryLines(q inquiry.Inquiry) []string {
	return []string{join(q.InquiryID, q.Product.ID(), string(q.Side), itoa(q.Quantity), pricefrac.Encode(q.Price), string(q.State))}
}

// NewPriceRecorder 记录界面输出的价格。
func NewPriceRecorder(svc *Service) *Recorder[pricing.Price] {
	return NewRecorder(svc, StreamPrice, func(p pricing.Price) string { return p.Product.ID() }, PriceLines)
}

// NewStreamRecorder 记录对外报价流。
func NewStreamRecorder(svc *Service) *Recorder[streaming.PriceStream] {
	return NewRecorder(svc, StreamStreaming, func(ps streaming.PriceStream) string { return ps.Product.ID() }, StreamLines)
}

// NewPositionRecorder 记录持仓。
func NewPositionRecorder(svc *Service) *Recorder[position.Position] {
	return NewRecorder(svc, StreamPosition, func(p position.Position) string { return p.Product.ID() }, PositionLines)
}

// NewRiskRecorder 记录产品风险。
func NewRiskRecorder(svc *Service) *Recorder[risk.PV01[product.Bond]] {
	return NewRecorder(svc, StreamRisk, func(pv risk.PV01[product.Bond]) string { return pv.Product.ID() }, RiskLines)
}

// NewBucketRecorder 记录分组风险。
func NewBucketRecorder(svc *Service) *Recorder[risk.PV01[risk.BucketedSector]] {
	return NewRecorder(svc, StreamRiskBucket, func(pv risk.PV01[risk.BucketedSector]) string { return pv.Product.Name }, BucketLines)
}

// NewExecutionRecorder 记录执行委托。
func NewExecutionRecorder(svc *Service) *Recorder[execution.ExecutionOrder] {
	return NewRecorder(svc, StreamExecution, func(o execution.ExecutionOrder) string { return o.OrderID }, ExecutionLines)
}

// NewInquiryRecorder 记录询价状态变化。
func NewInquiryRecorder(svc *Service) *Recorder[inquiry.Inquiry] {
	return NewRecorder(svc, StreamInquiry, func(q inquiry.Inquiry) string { return q.InquiryID }, InquiryLines)
}
