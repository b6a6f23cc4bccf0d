package pubsub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetMissingKey(t *testing.T) {
	s := NewStore[string, int]("test")

	_, err := s.Get("2Y")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "2Y")
}

func TestStorePutOverwrites(t *testing.T) {
	s := NewStore[string, int]("test")
	s.Put("2Y", 1)
	s.Put("2Y", 2)

	v, err := s.Get("2Y")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, s.Len())
}

func TestStoreNotifyInRegistrationOrder(t *testing.T) {
	s := NewStore[string, int]("test")

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.AddListener(ListenerFuncs[int]{Add: func(int) error {
			order = append(order, name)
			return nil
		}})
	}

	require.NoError(t, s.NotifyAdd(1))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Len(t, s.Listeners(), 3)
}

func TestStoreNotifyStopsAtFirstError(t *testing.T) {
	s := NewStore[string, int]("test")
	boom := errors.New("boom")

	var called []int
	s.AddListener(ListenerFuncs[int]{Add: func(v int) error {
		called = append(called, 1)
		return boom
	}})
	s.AddListener(ListenerFuncs[int]{Add: func(v int) error {
		called = append(called, 2)
		return nil
	}})

	err := s.NotifyAdd(7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []int{1}, called)
}

func TestListenersReturnsCopy(t *testing.T) {
	s := NewStore[string, int]("test")
	rec := &Recorder[int]{}
	s.AddListener(rec)

	ls := s.Listeners()
	ls[0] = nil

	require.NoError(t, s.NotifyAdd(3))
	assert.Equal(t, []int{3}, rec.Events)
}

func TestListenerFuncsNilCallbacks(t *testing.T) {
	var l Listener[int] = ListenerFuncs[int]{}
	assert.NoError(t, l.OnAdd(1))
	assert.NoError(t, l.OnUpdate(1))
	assert.NoError(t, l.OnRemove(1))
}
