// Package ports defines the interfaces that decouple the SoundMesh core
// from its adapters (event bus, audio source, UI).
package ports

import (
	"github.com/soundmesh/soundmesh/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// The event bus decouples event producers (the spectrum source, the
// visualizer service) from event consumers (UI, logging). Multiple
// subscribers can listen to the same event, and subscribers don't know
// about publishers.
//
// Thread-safety: Implementations must be thread-safe as events may be
// published and subscribed from multiple goroutines simultaneously.
//
// Example usage:
//
//	// In the source: Publish an event
//	bus.Publish(domain.NewSpectrumFrameEvent(magnitudes, sampleRate))
//
//	// In the service: Subscribe to events
//	subID := bus.Subscribe(domain.EventSpectrumFrame, func(event domain.Event) {
//	    e := event.(domain.SpectrumFrameEvent)
//	    view.UpdateSpectrum(e.Magnitudes)
//	})
//
//	// Later: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish publishes an event to all subscribers of that event type.
	// Handlers are called synchronously in subscription order for the
	// synchronous implementation, so handlers must return quickly or
	// dispatch to a background goroutine.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// The same handler can be registered multiple times, resulting in
	// multiple calls. Each subscription gets a unique SubscriptionID.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is
	// a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless
	// of type. This is useful for logging, debugging, or analytics.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for
	// the given event type. This can be used to avoid expensive event
	// construction if no one is listening.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	// After calling Close, no more events should be published or subscribed.
	Close() error
}
