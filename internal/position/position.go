package position

import (
	"errors"
	"fmt"

	"treasury-desk/internal/booking"
	"treasury-desk/internal/product"
)

// ErrUnknownBook 表示交易簿不在 TRSY1..TRSY3 之内。
var ErrUnknownBook = errors.New("unknown book")

// Position 为某产品在三个交易簿上的带符号持仓快照。
type Position struct {
	Product product.Bond
	Books   [len(booking.Books)]int64
}

// Quantity 返回指定交易簿的持仓。
func (p Position) Quantity(book booking.Book) (int64, error) {
	i, ok := book.Index()
	if !ok {
		return 0, fmt.Errorf("position: %q: %w", book, ErrUnknownBook)
	}
	return p.Books[i], nil
}

// Aggregate 返回三个交易簿持仓之和。
func (p Position) Aggregate() int64 {
	var total int64
	for _, q := range p.Books {
		total += q
	}
	return total
}

// Apply 返回叠加一笔交易后的新持仓，只修改交易所在的交易簿。
func (p Position) Apply(t booking.Trade) (Position, error) {
	i, ok := t.Book.Index()
	if !ok {
		return p, fmt.Errorf("position: 交易 %s 的交易簿 %q: %w", t.TradeID, t.Book, ErrUnknownBook)
	}
	next := p
	next.Books[i] += t.SignedQuantity()
	return next, nil
}
