package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers. Delivery is asynchronous.
// Usage: bus.Publish(LEDColorChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case LEDColorChangedEvent:
		event.Publish(b.dispatcher, e)
	case PatternReloadedEvent:
		event.Publish(b.dispatcher, e)
	case ControllerErrorEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type named by its parameter and
// returns an unsubscribe function. Unknown handler types get a no-op.
// Usage: unsub := bus.Subscribe(func(e LEDColorChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(LEDColorChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PatternReloadedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ControllerErrorEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

// SubscribeToChannel bridges callback subscriptions to a channel for
// select-loop consumers. Events are dropped when ch is full.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
