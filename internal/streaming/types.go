package streaming

import (
	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/product"
)

// Order 为双边报价中的一侧，包含可见与隐藏数量。
type Order struct {
	Price           float64
	VisibleQuantity int64
	HiddenQuantity  int64
	Side            marketdata.Side
}

// PriceStream 为某产品对外发布的双边报价。
type PriceStream struct {
	Product product.Bond
	Bid     Order
	Offer   Order
}
