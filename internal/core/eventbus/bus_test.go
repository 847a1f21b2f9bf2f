package eventbus_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/eventbus"
	"github.com/custodia-labs/outline-cli/internal/core/eventbus/testbus"
)

func TestEventBus_DeliversInOrder(t *testing.T) {
	tb := testbus.New(t)

	tb.PublishDocumentLoaded(eventbus.DocumentLoadedPayload{DocumentID: "a"})
	tb.PublishOutlinesChanged(eventbus.OutlinesChangedPayload{DocumentID: "a"})
	tb.PublishOutlinesForceUpdate(eventbus.OutlinesForceUpdatePayload{Reason: "test"})

	require.True(t, tb.WaitFor(eventbus.EventOutlinesForceUpdate, time.Second))

	events := tb.Events()
	require.Len(t, events, 3)
	assert.Equal(t, eventbus.EventDocumentLoaded, events[0].Event)
	assert.Equal(t, eventbus.EventOutlinesChanged, events[1].Event)
	assert.Equal(t, eventbus.EventOutlinesForceUpdate, events[2].Event)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	tb := testbus.New(t)

	var calls atomic.Int32
	unsub := tb.OnDocumentLoaded(func() { calls.Add(1) })
	assert.Equal(t, 2, tb.Subscribers(eventbus.EventDocumentLoaded))

	tb.PublishDocumentLoaded(eventbus.DocumentLoadedPayload{})
	require.True(t, tb.WaitForCount(eventbus.EventDocumentLoaded, 1, time.Second))

	unsub()
	unsub()
	assert.Equal(t, 1, tb.Subscribers(eventbus.EventDocumentLoaded))

	tb.PublishDocumentLoaded(eventbus.DocumentLoadedPayload{})
	require.True(t, tb.WaitForCount(eventbus.EventDocumentLoaded, 2, time.Second))

	assert.Equal(t, int32(1), calls.Load())
}

func TestEventBus_DestinationPickedCarriesPick(t *testing.T) {
	tb := testbus.New(t)

	got := make(chan domain.DestinationPick, 1)
	tb.OnDestinationPicked(func(p domain.DestinationPick) { got <- p })

	tb.PublishDestinationPicked(eventbus.DestinationPickedPayload{
		Pick: domain.DestinationPick{Page: 4, X: 10, Y: 20, IsText: true, PreviewText: "Intro"},
	})

	select {
	case p := <-got:
		assert.Equal(t, 4, p.Page)
		assert.Equal(t, "Intro", p.PreviewText)
	case <-time.After(time.Second):
		t.Fatal("destination pick not delivered")
	}
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := eventbus.New(1)

	var dropped atomic.Int32
	bus.OnDrop(func(eventbus.Event, any) { dropped.Add(1) })

	// Not started, so the second publish finds the queue full.
	bus.PublishOutlinesChanged(eventbus.OutlinesChangedPayload{})
	bus.PublishOutlinesChanged(eventbus.OutlinesChangedPayload{})

	assert.Equal(t, int32(1), dropped.Load())
}

func TestEventBus_PanickingSubscriberIsReported(t *testing.T) {
	bus := eventbus.New(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var recovered any
	done := make(chan struct{})
	bus.OnPanic(func(_ eventbus.Event, _ any, r any) {
		mu.Lock()
		recovered = r
		mu.Unlock()
		close(done)
	})
	bus.OnOutlinesChanged(func() { panic("boom") })

	go bus.Start(ctx)
	bus.PublishOutlinesChanged(eventbus.OutlinesChangedPayload{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panic hook not called")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "boom", recovered)
}

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	// Register with a nop logger — verifies no panic.
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.Nop())

	tb.PublishDocumentLoaded(eventbus.DocumentLoadedPayload{DocumentID: "doc"})
	tb.PublishOutlinesForceUpdate(eventbus.OutlinesForceUpdatePayload{})

	tb.AssertPublished(t, eventbus.EventOutlinesForceUpdate)
}
