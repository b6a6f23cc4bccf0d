package position

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury-desk/internal/booking"
	"treasury-desk/internal/product"
	"treasury-desk/internal/pubsub"
)

func trade(tenor, id string, book booking.Book, qty int64, side booking.Side) booking.Trade {
	return booking.Trade{
		Product:  product.MustTreasury(tenor),
		TradeID:  id,
		Price:    100,
		Book:     book,
		Quantity: qty,
		Side:     side,
	}
}

func TestSeededTenorsStartAtZero(t *testing.T) {
	svc := NewService(nil)
	for _, tenor := range product.Tenors {
		p, err := svc.GetData(tenor)
		require.NoError(t, err, tenor)
		assert.Zero(t, p.Aggregate(), tenor)
	}

	_, err := svc.GetData("40Y")
	assert.True(t, errors.Is(err, pubsub.ErrNotFound))
}

func TestAddTradeOnlyTouchesTradeBook(t *testing.T) {
	svc := NewService(nil)
	rec := &pubsub.Recorder[Position]{}
	svc.AddListener(rec)

	require.NoError(t, svc.AddTrade(trade("5Y", "T1", booking.BookTRSY1, 1_000_000, booking.SideBuy)))
	require.NoError(t, svc.AddTrade(trade("5Y", "T2", booking.BookTRSY2, 300_000, booking.SideSell)))

	p, err := svc.GetData("5Y")
	require.NoError(t, err)
	assert.Equal(t, [3]int64{1_000_000, -300_000, 0}, p.Books)
	assert.Equal(t, int64(700_000), p.Aggregate())

	q, err := p.Quantity(booking.BookTRSY2)
	require.NoError(t, err)
	assert.Equal(t, int64(-300_000), q)

	require.Len(t, rec.Events, 2)
	assert.Equal(t, [3]int64{1_000_000, 0, 0}, rec.Events[0].Books, "earlier snapshots are not mutated")
}

func TestUnseenProductStartsFromZero(t *testing.T) {
	svc := NewService(nil)
	bond := product.Bond{ProductID: "912828XYZ", Ticker: "T"}

	err := svc.AddTrade(booking.Trade{Product: bond, TradeID: "X", Book: booking.BookTRSY3, Quantity: 10, Side: booking.SideSell})
	require.NoError(t, err)

	p, err := svc.GetData("912828XYZ")
	require.NoError(t, err)
	assert.Equal(t, [3]int64{0, 0, -10}, p.Books)
}

func TestUnknownBookRejected(t *testing.T) {
	svc := NewService(nil)
	err := svc.AddTrade(trade("2Y", "T9", booking.Book("TRSY9"), 1, booking.SideBuy))
	assert.True(t, errors.Is(err, ErrUnknownBook))

	_, err = Position{}.Quantity("NOPE")
	assert.True(t, errors.Is(err, ErrUnknownBook))
}

func TestPositionEqualsSignedSumPerBook(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	svc := NewService(nil)
	var want [3]int64

	for i := 0; i < 500; i++ {
		b := rng.Intn(3)
		qty := int64(rng.Intn(5_000_000))
		side := booking.SideBuy
		if rng.Intn(2) == 0 {
			side = booking.SideSell
			want[b] -= qty
		} else {
			want[b] += qty
		}
		require.NoError(t, svc.AddTrade(trade("10Y", "R", booking.Books[b], qty, side)))
	}

	p, err := svc.GetData("10Y")
	require.NoError(t, err)
	assert.Equal(t, want, p.Books)
	assert.Equal(t, want[0]+want[1]+want[2], p.Aggregate())
}
