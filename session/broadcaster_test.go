package session_test

import (
	"testing"

	"github.com/connectexe/connectexe-client/session"
	"github.com/stretchr/testify/require"
)

func TestTwoListenersCalledOnceInOrder(t *testing.T) {
	b := session.NewBroadcaster()

	var calls []string
	b.OnChanged(func() { calls = append(calls, "header") })
	b.OnChanged(func() { calls = append(calls, "dashboard") })

	b.NotifyChanged()

	require.Equal(t, []string{"header", "dashboard"}, calls)
}

func TestLateListenerNotCalledRetroactively(t *testing.T) {
	b := session.NewBroadcaster()
	b.NotifyChanged()

	called := 0
	b.OnChanged(func() { called++ })
	require.Equal(t, 0, called)

	b.NotifyChanged()
	require.Equal(t, 1, called)
}

func TestListenerAddedDuringNotifyWaitsForNextNotify(t *testing.T) {
	b := session.NewBroadcaster()

	inner := 0
	added := false
	b.OnChanged(func() {
		if !added {
			added = true
			b.OnChanged(func() { inner++ })
		}
	})

	b.NotifyChanged()
	require.Equal(t, 0, inner)

	b.NotifyChanged()
	require.Equal(t, 1, inner)
}

func TestUnsubscribe(t *testing.T) {
	b := session.NewBroadcaster()

	first, second := 0, 0
	unsubscribe := b.OnChanged(func() { first++ })
	b.OnChanged(func() { second++ })
	require.Equal(t, 2, b.Len())

	unsubscribe()
	unsubscribe()
	require.Equal(t, 1, b.Len())

	b.NotifyChanged()
	require.Equal(t, 0, first)
	require.Equal(t, 1, second)
}

func TestUnsubscribeDuringNotifySkipsLaterListener(t *testing.T) {
	b := session.NewBroadcaster()

	var unsubscribeSecond func()
	second := 0
	b.OnChanged(func() { unsubscribeSecond() })
	unsubscribeSecond = b.OnChanged(func() { second++ })

	b.NotifyChanged()
	require.Equal(t, 0, second)
}

func TestPanickingListenerDoesNotStopDelivery(t *testing.T) {
	b := session.NewBroadcaster()

	reached := false
	b.OnChanged(func() { panic("header crashed") })
	b.OnChanged(func() { reached = true })

	require.NotPanics(t, b.NotifyChanged)
	require.True(t, reached)
}
