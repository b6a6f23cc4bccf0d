package inquiry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury-desk/internal/booking"
	"treasury-desk/internal/product"
	"treasury-desk/internal/pubsub"
)

func received(id string) Inquiry {
	return Inquiry{
		InquiryID: id,
		Product:   product.MustTreasury("2Y"),
		Side:      booking.SideBuy,
		Quantity:  1_000_000,
		Price:     0,
		State:     StateReceived,
	}
}

func states(events []Inquiry) []State {
	out := make([]State, 0, len(events))
	for _, e := range events {
		out = append(out, e.State)
	}
	return out
}

type capture struct {
	published []Inquiry
}

func (c *capture) Publish(q Inquiry) error {
	c.published = append(c.published, q)
	return nil
}

func TestTwoRoundTripsReachDone(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	out := &capture{}
	svc.SetConnector(out)
	rec := &pubsub.Recorder[Inquiry]{}
	svc.AddListener(rec)

	require.NoError(t, svc.OnMessage(received("1")))
	require.Len(t, out.published, 1)
	quoted := out.published[0]
	assert.Equal(t, StateQuoted, quoted.State)
	assert.Equal(t, 100.0, quoted.Price)

	rec.Events = nil
	require.NoError(t, svc.OnMessage(quoted))

	assert.Equal(t, []State{StateQuoted, StateDone}, states(rec.Events))
	assert.Len(t, out.published, 1, "done is not externalized")

	got, err := svc.GetData("1")
	require.NoError(t, err)
	assert.Equal(t, StateDone, got.State)
	assert.Equal(t, 100.0, got.Price)
}

func TestLoopbackDrivesFullLifecycle(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	rec := &pubsub.Recorder[Inquiry]{}
	svc.AddListener(rec)

	require.NoError(t, svc.OnMessage(received("7")))

	assert.Equal(t, []State{StateReceived, StateQuoted, StateDone}, states(rec.Events))
	for _, e := range rec.Events {
		assert.NotEqual(t, StateRejected, e.State)
	}
	got, err := svc.GetData("7")
	require.NoError(t, err)
	assert.Equal(t, StateDone, got.State)
}

func TestSendQuote(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	out := &capture{}
	svc.SetConnector(out)

	require.NoError(t, svc.OnMessage(received("2")))
	require.NoError(t, svc.SendQuote("2", 99.75))
	require.Len(t, out.published, 2)
	assert.Equal(t, 99.75, out.published[1].Price)

	err := svc.SendQuote("404", 1)
	assert.True(t, errors.Is(err, pubsub.ErrNotFound))
}

func TestRejectInquiry(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	out := &capture{}
	svc.SetConnector(out)
	rec := &pubsub.Recorder[Inquiry]{}
	svc.AddListener(rec)

	require.NoError(t, svc.OnMessage(received("3")))
	require.NoError(t, svc.RejectInquiry("3"))

	assert.Equal(t, []State{StateReceived, StateRejected}, states(rec.Events))
	assert.Len(t, out.published, 1, "rejection is not forwarded")

	err := svc.RejectInquiry("3")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	err = svc.SendQuote("3", 100)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestTerminalStatesOnlyNotify(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	out := &capture{}
	svc.SetConnector(out)
	rec := &pubsub.Recorder[Inquiry]{}
	svc.AddListener(rec)

	q := received("4")
	q.State = StateCustomerRejected
	require.NoError(t, svc.OnMessage(q))

	assert.Equal(t, []State{StateCustomerRejected}, states(rec.Events))
	assert.Empty(t, out.published)

	q.State = State("PENDING")
	assert.True(t, errors.Is(svc.OnMessage(q), ErrInvalidTransition))
}

func TestReentryGuard(t *testing.T) {
	svc := NewService(Config{QuotePrice: 100, MaxReentry: 1}, nil)
	err := svc.OnMessage(received("5"))
	assert.True(t, errors.Is(err, ErrReentryLimit))

	// 深度计数在出错后恢复。
	svc.SetConnector(&capture{})
	require.NoError(t, svc.OnMessage(received("6")))
}

func TestStateTable(t *testing.T) {
	assert.True(t, StateReceived.CanTransition(StateQuoted))
	assert.True(t, StateReceived.CanTransition(StateRejected))
	assert.True(t, StateQuoted.CanTransition(StateDone))
	assert.False(t, StateQuoted.CanTransition(StateRejected))
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateRejected.Terminal())
	assert.True(t, StateCustomerRejected.Terminal())
	assert.False(t, StateReceived.Terminal())

	st, err := ParseState("quoted")
	require.NoError(t, err)
	assert.Equal(t, StateQuoted, st)
	_, err = ParseState("x")
	assert.Error(t, err)
}
