// Package eventbus provides the synchronous EventBus implementation used to
// wire the spectrum source, the visualizer service, and the UI together.
package eventbus

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/soundmesh/soundmesh/internal/domain"
	"github.com/soundmesh/soundmesh/internal/ports"
)

// SyncEventBus delivers events to handlers synchronously, in subscription
// order. Spectrum frames arrive at ~30 per second on the source's streaming
// goroutine, so handlers must return quickly or dispatch to a background
// goroutine themselves.
//
// Thread-safety: publish, subscribe, and unsubscribe may be called from any
// goroutine.
type SyncEventBus struct {
	logger *slog.Logger

	// mu protects subscribers and allSubscribers.
	mu             sync.RWMutex
	subscribers    map[domain.EventType][]subscription
	allSubscribers []subscription

	idCounter uint64
	closed    bool
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus(logger *slog.Logger) *SyncEventBus {
	return &SyncEventBus{
		logger:         logger,
		subscribers:    make(map[domain.EventType][]subscription),
		allSubscribers: make([]subscription, 0),
	}
}

// Publish delivers an event to all subscribers of its type, then to all
// wildcard subscribers. Publishing nil or publishing on a closed bus is a
// no-op. A panicking handler is recovered and logged without stopping
// delivery to the remaining handlers.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}

	// Snapshot the handler lists so handlers can subscribe or unsubscribe
	// without deadlocking on the bus lock.
	eventType := event.Type()
	typed := make([]subscription, len(bus.subscribers[eventType]))
	copy(typed, bus.subscribers[eventType])
	wildcard := make([]subscription, len(bus.allSubscribers))
	copy(wildcard, bus.allSubscribers)
	bus.mu.RUnlock()

	for _, sub := range typed {
		bus.callHandler(sub.handler, event)
	}
	for _, sub := range wildcard {
		bus.callHandler(sub.handler, event)
	}
}

func (bus *SyncEventBus) callHandler(handler domain.EventHandler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			if bus.logger != nil {
				bus.logger.Error("event handler panicked",
					slog.Any("panic", r),
					slog.String("event_type", string(event.Type())))
			}
		}
	}()

	// Per-frame spectrum events make handler-level debug logging too noisy
	// to leave on unconditionally.
	if bus.logger != nil && event.Type() != domain.EventSpectrumFrame {
		handlerName := runtime.FuncForPC(reflect.ValueOf(handler).Pointer()).Name()
		bus.logger.Debug("event published",
			slog.String("event_type", string(event.Type())),
			slog.String("handler", handlerName))
	}
	handler(event)
}

// Subscribe registers a handler for events of the specified type and returns
// the subscription's unique ID. The same handler may be registered multiple
// times under different IDs. Panics on a nil handler or a closed bus.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	id := domain.SubscriptionID(fmt.Sprintf("sub-%d", atomic.AddUint64(&bus.idCounter, 1)))
	bus.subscribers[eventType] = append(bus.subscribers[eventType], subscription{
		id:      id,
		handler: handler,
	})
	return id
}

// Unsubscribe removes a subscription. Unknown IDs are a no-op.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, subs := range bus.subscribers {
		for i, sub := range subs {
			if sub.id == id {
				subs[i] = subs[len(subs)-1]
				bus.subscribers[eventType] = subs[:len(subs)-1]
				return
			}
		}
	}
	for i, sub := range bus.allSubscribers {
		if sub.id == id {
			bus.allSubscribers[i] = bus.allSubscribers[len(bus.allSubscribers)-1]
			bus.allSubscribers = bus.allSubscribers[:len(bus.allSubscribers)-1]
			return
		}
	}
}

// SubscribeAll registers a handler that receives every event regardless of
// type. Useful for logging and debugging.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	id := domain.SubscriptionID(fmt.Sprintf("sub-all-%d", atomic.AddUint64(&bus.idCounter, 1)))
	bus.allSubscribers = append(bus.allSubscribers, subscription{
		id:      id,
		handler: handler,
	})
	return id
}

// HasSubscribers reports whether any handler would see an event of the given
// type, counting wildcard subscriptions.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	if len(bus.subscribers[eventType]) > 0 {
		return true
	}
	return len(bus.allSubscribers) > 0
}

// Close shuts down the bus and clears all subscriptions. Closing twice
// returns an error.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return fmt.Errorf("event bus already closed")
	}
	bus.closed = true
	bus.subscribers = make(map[domain.EventType][]subscription)
	bus.allSubscribers = make([]subscription, 0)
	return nil
}

// SubscriberCount returns the number of active subscriptions, typed and
// wildcard combined.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.allSubscribers)
	for _, subs := range bus.subscribers {
		count += len(subs)
	}
	return count
}

// Verify that SyncEventBus implements the EventBus interface
var _ ports.EventBus = (*SyncEventBus)(nil)
