package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury-desk/internal/config"
	"treasury-desk/internal/execution"
	"treasury-desk/internal/inquiry"
	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/position"
	"treasury-desk/internal/pricing"
	"treasury-desk/internal/product"
	"treasury-desk/internal/risk"
	"treasury-desk/internal/store"
	"treasury-desk/internal/streaming"
)

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	st, err := store.NewSQLite(config.DatabaseConfig{InMemory: true, MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc, err := NewService(st, Config{Dir: dir, TimestampLayout: "15:04:05"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local) }
	return svc
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
}

func TestStreamRecorderWritesTwoLines(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)

	ps := streaming.PriceStream{
		Product: product.MustTreasury("2Y"),
		Bid:     streaming.Order{Price: 99.5, VisibleQuantity: 1_000_000, HiddenQuantity: 2_000_000, Side: marketdata.SideBid},
		Offer:   streaming.Order{Price: 99.515625, VisibleQuantity: 1_000_000, HiddenQuantity: 2_000_000, Side: marketdata.SideOffer},
	}
	require.NoError(t, NewStreamRecorder(svc).OnAdd(ps))

	lines := readLines(t, filepath.Join(dir, "streaming.txt"))
	assert.Equal(t, []string{
		"10:30:00,2Y,99.500000,1000000,2000000,BID",
		"10:30:00,2Y,99.515625,1000000,2000000,OFFER",
	}, lines)

	events, err := svc.ListEvents(context.Background(), StreamStreaming, "", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, svc.RunID(), events[0].RunID)
	assert.Equal(t, "2Y", events[0].PersistKey)

	var decoded streaming.PriceStream
	require.NoError(t, json.Unmarshal(events[0].Payload, &decoded))
	assert.Equal(t, 99.515625, decoded.Offer.Price)
}

func TestRiskAndBucketShareFile(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)

	require.NoError(t, NewRiskRecorder(svc).OnAdd(risk.PV01[product.Bond]{Product: product.MustTreasury("5Y"), PV01: 0.048643, Quantity: 100}))
	belly, err := risk.SectorByName(risk.SectorBelly)
	require.NoError(t, err)
	require.NoError(t, NewBucketRecorder(svc).OnAdd(risk.PV01[risk.BucketedSector]{Product: belly, PV01: 4.8643, Quantity: 100}))

	assert.Equal(t, []string{
		"10:30:00,5Y,0.048643,100",
		"10:30:00,Belly,4.864300,100",
	}, readLines(t, filepath.Join(dir, "risk.txt")))

	all, err := svc.ListEvents(context.Background(), "", "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, StreamRiskBucket, all[0].Stream, "newest first")
}

func TestOtherFormatters(t *testing.T) {
	assert.Equal(t, []string{"10Y,100-16+,0-002"}, PriceLines(pricing.Price{Product: product.MustTreasury("10Y"), Mid: 100.515625, BidOfferSpread: 2.0 / 256}))
	assert.Equal(t, []string{"3Y,5,-2,0,3"}, PositionLines(position.Position{Product: product.MustTreasury("3Y"), Books: [3]int64{5, -2, 0}}))
	assert.Equal(t,
		[]string{"7Y,OFFER,1,MARKET,99.500000,1,2,1,FALSE"},
		ExecutionLines(execution.ExecutionOrder{
			Product: product.MustTreasury("7Y"), Side: marketdata.SideOffer, OrderID: "1", OrderType: execution.OrderTypeMarket,
			Price: 99.5, VisibleQuantity: 1, HiddenQuantity: 2, ParentOrderID: "1",
		}),
	)
	assert.Equal(t,
		[]string{"9,2Y,BUY,1000000,100-000,DONE"},
		InquiryLines(inquiry.Inquiry{InquiryID: "9", Product: product.MustTreasury("2Y"), Side: "BUY", Quantity: 1_000_000, Price: 100, State: inquiry.StateDone}),
	)
}

func TestRecorderAsConnectorAndRunFilter(t *testing.T) {
	svc := newTestService(t, "")

	rec := NewPriceRecorder(svc)
	require.NoError(t, rec.Publish(pricing.Price{Product: product.MustTreasury("30Y"), Mid: 99}))
	assert.Equal(t, StreamPrice, rec.Stream())

	mine, err := svc.ListEvents(context.Background(), StreamPrice, svc.RunID(), 5)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := svc.ListEvents(context.Background(), StreamPrice, "another-run", 5)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSinkFilesCoverAllStreams(t *testing.T) {
	for _, s := range Streams() {
		_, ok := sinkFiles[s]
		assert.True(t, ok, s)
	}
}
