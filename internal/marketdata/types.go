package marketdata

import "treasury-desk/internal/product"

// Side 表示盘口方向。
type Side string

const (
	SideBid   Side = "BID"
	SideOffer Side = "OFFER"
)

// Opposite 返回相反方向。
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideOffer
	}
	return SideBid
}

// Order 为盘口上的一档报价。
type Order struct {
	Price    float64
	Quantity int64
	Side     Side
}

// IsZero 判断是否为空档位，空盘口一侧会得到零值 Order。
func (o Order) IsZero() bool {
	return o == Order{}
}

// BidOffer 为最优买卖报价，由 OrderBook 推导得出，不单独存储。
type BidOffer struct {
	Bid   Order
	Offer Order
}

// Spread 返回卖价减买价。
func (b BidOffer) Spread() float64 {
	return b.Offer.Price - b.Bid.Price
}

// OrderBook 为某产品的买卖盘快照，每侧可包含多个价位。
type OrderBook struct {
	Product    product.Bond
	BidStack   []Order
	OfferStack []Order
}

// BestBidOffer 扫描买盘取最高价、卖盘取最低价，价格相同时保留先出现的档位。
// 某一侧为空时该侧返回零值 Order。
func (b OrderBook) BestBidOffer() BidOffer {
	var best BidOffer

	for i, o := range b.BidStack {
		if i == 0 || o.Price > best.Bid.Price {
			best.Bid = o
		}
	}
	for i, o := range b.OfferStack {
		if i == 0 || o.Price < best.Offer.Price {
			best.Offer = o
		}
	}

	return best
}
