package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury-desk/internal/product"
	"treasury-desk/internal/pubsub"
)

func TestPriceBidOffer(t *testing.T) {
	p := Price{Product: product.MustTreasury("2Y"), Mid: 99.5, BidOfferSpread: 1.0 / 128}
	assert.Equal(t, 99.5-1.0/256, p.Bid())
	assert.Equal(t, 99.5+1.0/256, p.Offer())
}

func TestOnMessageReplacesLatest(t *testing.T) {
	svc := NewService(nil)
	rec := &pubsub.Recorder[Price]{}
	svc.AddListener(rec)

	first := Price{Product: product.MustTreasury("10Y"), Mid: 100, BidOfferSpread: 1.0 / 64}
	second := Price{Product: product.MustTreasury("10Y"), Mid: 100.25, BidOfferSpread: 1.0 / 128}
	require.NoError(t, svc.OnMessage(first))
	require.NoError(t, svc.OnMessage(second))

	got, err := svc.GetData("10Y")
	require.NoError(t, err)
	assert.Equal(t, second, got)
	assert.Equal(t, []Price{first, second}, rec.Events)
	assert.Len(t, svc.GetListeners(), 1)
}

func TestListenerErrorStopsNotification(t *testing.T) {
	svc := NewService(nil)
	boom := errors.New("boom")
	called := false
	svc.AddListener(pubsub.ListenerFuncs[Price]{Add: func(Price) error { return boom }})
	svc.AddListener(pubsub.ListenerFuncs[Price]{Add: func(Price) error { called = true; return nil }})

	err := svc.OnMessage(Price{Product: product.MustTreasury("5Y"), Mid: 99})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestGetDataUnknown(t *testing.T) {
	_, err := NewService(nil).GetData("30Y")
	assert.ErrorIs(t, err, pubsub.ErrNotFound)
}
