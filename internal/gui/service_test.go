package gui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury-desk/internal/pricing"
	"treasury-desk/internal/product"
	"treasury-desk/internal/pubsub"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func newTestService(cfg Config, sink pubsub.Connector[pricing.Price]) (*Service, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)}
	svc := NewService(cfg, sink, nil)
	svc.now = clock.Now
	svc.sleep = clock.Sleep
	return svc, clock
}

func price(tenor string, mid float64) pricing.Price {
	return pricing.Price{Product: product.MustTreasury(tenor), Mid: mid, BidOfferSpread: 1.0 / 128}
}

func TestThrottleSleepsBetweenUpdates(t *testing.T) {
	var published []pricing.Price
	sink := pubsub.ConnectorFunc[pricing.Price](func(p pricing.Price) error {
		published = append(published, p)
		return nil
	})
	svc, clock := newTestService(Config{Throttle: 300 * time.Millisecond}, sink)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.OnMessage(price("2Y", 99+float64(i))))
	}

	assert.Len(t, published, 3)
	assert.Equal(t, []time.Duration{300 * time.Millisecond, 300 * time.Millisecond}, clock.sleeps)
}

func TestNoSleepWhenUpdatesAreSpacedOut(t *testing.T) {
	svc, clock := newTestService(Config{Throttle: 300 * time.Millisecond}, nil)

	require.NoError(t, svc.OnMessage(price("2Y", 99)))
	clock.now = clock.now.Add(time.Second)
	require.NoError(t, svc.OnMessage(price("2Y", 100)))

	assert.Empty(t, clock.sleeps)
}

func TestMaxUpdatesCap(t *testing.T) {
	rec := &pubsub.Recorder[pricing.Price]{}
	svc, _ := newTestService(Config{MaxUpdates: 2}, nil)
	svc.AddListener(rec)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.OnMessage(price("5Y", 100+float64(i))))
	}

	assert.Len(t, rec.Events, 2)
	assert.Equal(t, 2, svc.Shown())

	got, err := svc.GetData("5Y")
	require.NoError(t, err)
	assert.Equal(t, 101.0, got.Mid, "dropped updates are not stored")
}

func TestPriceListenerForwards(t *testing.T) {
	svc, _ := newTestService(Config{}, nil)
	pricer := pricing.NewService(nil)
	pricer.AddListener(svc.PriceListener())

	require.NoError(t, pricer.OnMessage(price("30Y", 98)))
	assert.Equal(t, 1, svc.Shown())
}
