package eventbus

import (
	"context"
	"sync"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// Ensure EventBus implements the signals port.
var _ driven.Signals = (*EventBus)(nil)

type envelope struct {
	event   Event
	payload any
}

type subscriber struct {
	id uint64
	fn func(any)
}

// EventBus queues published events and delivers them from a single
// goroutine, so subscribers never run concurrently with each other.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu     sync.RWMutex
	subs   map[Event][]subscriber
	nextID uint64
}

// New creates a bus with the given queue size. Publishing to a full queue
// drops the event.
func New(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 1
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]subscriber),
	}
}

// Start delivers queued events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]subscriber, len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, s := range subs {
		bus.call(env, s.fn)
	}
}

func (bus *EventBus) call(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

func (bus *EventBus) subscribe(event Event, fn func(any)) driven.Unsubscribe {
	bus.mu.Lock()
	bus.nextID++
	id := bus.nextID
	bus.subs[event] = append(bus.subs[event], subscriber{id: id, fn: fn})
	bus.mu.Unlock()

	bus.runOnSubscribe(event)

	var once sync.Once
	return func() {
		once.Do(func() { bus.unsubscribe(event, id) })
	}
}

func (bus *EventBus) unsubscribe(event Event, id uint64) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	subs := bus.subs[event]
	for i, s := range subs {
		if s.id == id {
			bus.subs[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(bus.subs[event]) == 0 {
		delete(bus.subs, event)
	}
}

// Subscribers returns the number of handlers registered for event.
func (bus *EventBus) Subscribers(event Event) int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs[event])
}

// SubscribeDocumentLoaded registers fn for EventDocumentLoaded.
func (bus *EventBus) SubscribeDocumentLoaded(fn func(DocumentLoadedPayload)) driven.Unsubscribe {
	return bus.subscribe(EventDocumentLoaded, func(p any) { fn(p.(DocumentLoadedPayload)) })
}

// PublishDocumentLoaded queues EventDocumentLoaded.
func (bus *EventBus) PublishDocumentLoaded(p DocumentLoadedPayload) {
	bus.send(EventDocumentLoaded, p)
}

// SubscribeOutlinesForceUpdate registers fn for EventOutlinesForceUpdate.
func (bus *EventBus) SubscribeOutlinesForceUpdate(fn func(OutlinesForceUpdatePayload)) driven.Unsubscribe {
	return bus.subscribe(EventOutlinesForceUpdate, func(p any) { fn(p.(OutlinesForceUpdatePayload)) })
}

// PublishOutlinesForceUpdate queues EventOutlinesForceUpdate.
func (bus *EventBus) PublishOutlinesForceUpdate(p OutlinesForceUpdatePayload) {
	bus.send(EventOutlinesForceUpdate, p)
}

// SubscribeOutlinesChanged registers fn for EventOutlinesChanged.
func (bus *EventBus) SubscribeOutlinesChanged(fn func(OutlinesChangedPayload)) driven.Unsubscribe {
	return bus.subscribe(EventOutlinesChanged, func(p any) { fn(p.(OutlinesChangedPayload)) })
}

// PublishOutlinesChanged queues EventOutlinesChanged.
func (bus *EventBus) PublishOutlinesChanged(p OutlinesChangedPayload) {
	bus.send(EventOutlinesChanged, p)
}

// SubscribeDestinationPicked registers fn for EventDestinationPicked.
func (bus *EventBus) SubscribeDestinationPicked(fn func(DestinationPickedPayload)) driven.Unsubscribe {
	return bus.subscribe(EventDestinationPicked, func(p any) { fn(p.(DestinationPickedPayload)) })
}

// PublishDestinationPicked queues EventDestinationPicked.
func (bus *EventBus) PublishDestinationPicked(p DestinationPickedPayload) {
	bus.send(EventDestinationPicked, p)
}

// OnDocumentLoaded implements driven.Signals.
func (bus *EventBus) OnDocumentLoaded(fn func()) driven.Unsubscribe {
	return bus.SubscribeDocumentLoaded(func(DocumentLoadedPayload) { fn() })
}

// OnForceUpdateOutlines implements driven.Signals.
func (bus *EventBus) OnForceUpdateOutlines(fn func()) driven.Unsubscribe {
	return bus.SubscribeOutlinesForceUpdate(func(OutlinesForceUpdatePayload) { fn() })
}

// OnOutlinesChanged implements driven.Signals.
func (bus *EventBus) OnOutlinesChanged(fn func()) driven.Unsubscribe {
	return bus.SubscribeOutlinesChanged(func(OutlinesChangedPayload) { fn() })
}

// OnDestinationPicked implements driven.Signals.
func (bus *EventBus) OnDestinationPicked(fn func(domain.DestinationPick)) driven.Unsubscribe {
	return bus.SubscribeDestinationPicked(func(p DestinationPickedPayload) { fn(p.Pick) })
}
