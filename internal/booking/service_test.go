package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury-desk/internal/execution"
	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/product"
	"treasury-desk/internal/pubsub"
)

func TestBookExecutionConvertsOrders(t *testing.T) {
	svc := NewService(nil)
	rec := &pubsub.Recorder[Trade]{}
	svc.AddListener(rec)

	orders := []execution.ExecutionOrder{
		{Product: product.MustTreasury("2Y"), Side: marketdata.SideOffer, OrderID: "1", Price: 99.5, VisibleQuantity: 1, HiddenQuantity: 2},
		{Product: product.MustTreasury("2Y"), Side: marketdata.SideBid, OrderID: "2", Price: 99.6, VisibleQuantity: 3, HiddenQuantity: 4},
		{Product: product.MustTreasury("3Y"), Side: marketdata.SideBid, OrderID: "3", Price: 98, VisibleQuantity: 5, HiddenQuantity: 5},
		{Product: product.MustTreasury("3Y"), Side: marketdata.SideOffer, OrderID: "4", Price: 98, VisibleQuantity: 0, HiddenQuantity: 1},
	}
	for _, o := range orders {
		require.NoError(t, svc.ExecutionListener().OnAdd(o))
	}

	require.Len(t, rec.Events, 4)
	assert.Equal(t, Trade{Product: product.MustTreasury("2Y"), TradeID: "M1", Price: 99.5, Book: BookTRSY2, Quantity: 3, Side: SideSell}, rec.Events[0])
	assert.Equal(t, Trade{Product: product.MustTreasury("2Y"), TradeID: "M2", Price: 99.6, Book: BookTRSY3, Quantity: 7, Side: SideBuy}, rec.Events[1])
	assert.Equal(t, BookTRSY1, rec.Events[2].Book)
	assert.Equal(t, BookTRSY2, rec.Events[3].Book)
	assert.Equal(t, "M4", rec.Events[3].TradeID)

	last, err := svc.GetData("2Y")
	require.NoError(t, err)
	assert.Equal(t, "M2", last.TradeID, "last trade per product is kept")
}

func TestParseBookAndSide(t *testing.T) {
	b, err := ParseBook(" trsy3 ")
	require.NoError(t, err)
	assert.Equal(t, BookTRSY3, b)
	idx, ok := b.Index()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, err = ParseBook("TRSY4")
	assert.Error(t, err)

	s, err := ParseSide("sell")
	require.NoError(t, err)
	assert.Equal(t, SideSell, s)
	_, err = ParseSide("HOLD")
	assert.Error(t, err)
}

func TestSignedQuantity(t *testing.T) {
	assert.Equal(t, int64(5), Trade{Quantity: 5, Side: SideBuy}.SignedQuantity())
	assert.Equal(t, int64(-5), Trade{Quantity: 5, Side: SideSell}.SignedQuantity())
}
