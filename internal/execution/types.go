package execution

import (
	"fmt"
	"strings"

	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/product"
)

// OrderType 表示委托类型。
type OrderType string

const (
	OrderTypeFOK    OrderType = "FOK"
	OrderTypeIOC    OrderType = "IOC"
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeStop   OrderType = "STOP"
)

// Market 表示执行场所。
type Market string

const (
	MarketBrokerTec Market = "BROKERTEC"
	MarketESpeed    Market = "ESPEED"
	MarketCME       Market = "CME"
)

// ParseMarket 解析场所名称，大小写不敏感。
func ParseMarket(s string) (Market, error) {
	switch m := Market(strings.ToUpper(strings.TrimSpace(s))); m {
	case MarketBrokerTec, MarketESpeed, MarketCME:
		return m, nil
	default:
		return "", fmt.Errorf("execution: 未知执行场所 %q", s)
	}
}

// ExecutionOrder 为算法生成的一笔执行委托。
type ExecutionOrder struct {
	Product         product.Bond
	Side            marketdata.Side
	OrderID         string
	OrderType       OrderType
	Price           float64
	VisibleQuantity int64
	HiddenQuantity  int64
	ParentOrderID   string
	IsChildOrder    bool
}

// Quantity 返回可见与隐藏数量之和。
func (o ExecutionOrder) Quantity() int64 {
	return o.VisibleQuantity + o.HiddenQuantity
}
