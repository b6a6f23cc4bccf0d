package booking

import (
	"fmt"
	"strings"

	"treasury-desk/internal/execution"
	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/product"
)

// Side 表示成交方向。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide 解析成交方向，大小写不敏感。
func ParseSide(s string) (Side, error) {
	switch side := Side(strings.ToUpper(strings.TrimSpace(s))); side {
	case SideBuy, SideSell:
		return side, nil
	default:
		return "", fmt.Errorf("booking: 未知成交方向 %q", s)
	}
}

// SideFromOrder 把委托方向映射为成交方向：BID 为买入，OFFER 为卖出。
func SideFromOrder(s marketdata.Side) Side {
	if s == marketdata.SideBid {
		return SideBuy
	}
	return SideSell
}

// Book 为交易簿名称。
type Book string

const (
	BookTRSY1 Book = "TRSY1"
	BookTRSY2 Book = "TRSY2"
	BookTRSY3 Book = "TRSY3"
)

// Books 为全部交易簿，顺序固定。
var Books = [3]Book{BookTRSY1, BookTRSY2, BookTRSY3}

// Index 返回交易簿在 Books 中的下标，未知交易簿返回 false。
func (b Book) Index() (int, bool) {
	for i, known := range Books {
		if b == known {
			return i, true
		}
	}
	return 0, false
}

// ParseBook 解析交易簿名称。
func ParseBook(s string) (Book, error) {
	b := Book(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := b.Index(); !ok {
		return "", fmt.Errorf("booking: 未知交易簿 %q", s)
	}
	return b, nil
}

// Trade 为一笔已成交交易。
type Trade struct {
	Product  product.Bond
	TradeID  string
	Price    float64
	Book     Book
	Quantity int64
	Side     Side
}

// SignedQuantity 返回带方向的数量，卖出为负。
func (t Trade) SignedQuantity() int64 {
	if t.Side == SideSell {
		return -t.Quantity
	}
	return t.Quantity
}

// FromExecution 把执行委托转换为交易，数量为可见与隐藏之和。
func FromExecution(order execution.ExecutionOrder, tradeID string, book Book) Trade {
	return Trade{
		Product:  order.Product,
		TradeID:  tradeID,
		Price:    order.Price,
		Book:     book,
		Quantity: order.Quantity(),
		Side:     SideFromOrder(order.Side),
	}
}
