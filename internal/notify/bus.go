// Package notify fans advisory stock-in events out to subscribers and keeps a
// short per-station history for clients that poll.
package notify

import (
	"sync"

	"stockin-agent/internal/core"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// AllEvents is the topic every event is published on in addition to its kind.
const AllEvents = "stockin:*"

// DefaultHistory is the number of events retained per station.
const DefaultHistory = 50

// Bus implements core.Notifier on top of an EventBus.
type Bus struct {
	bus     EventBus.Bus
	history int
	logger  *zap.Logger

	mu     sync.Mutex
	recent map[string][]core.Event
}

// NewBus creates a Bus that logs every event and remembers the last history
// events per station. history <= 0 selects DefaultHistory.
func NewBus(logger *zap.Logger, history int) *Bus {
	if logger == nil {
		logger = zap.L()
	}
	if history <= 0 {
		history = DefaultHistory
	}
	b := &Bus{
		bus:     EventBus.New(),
		history: history,
		logger:  logger,
		recent:  make(map[string][]core.Event),
	}
	b.mustSubscribe(AllEvents, b.remember)
	b.mustSubscribe(AllEvents, b.log)
	return b
}

// mustSubscribe registers one of the bus's own handlers. EventBus only rejects
// handlers that are not funcs, so a failure here is a programming error.
func (b *Bus) mustSubscribe(topic string, fn func(core.Event)) {
	if err := b.bus.Subscribe(topic, fn); err != nil {
		panic("notify: subscribe " + topic + ": " + err.Error())
	}
}

// Notify publishes ev on its kind topic and on AllEvents.
func (b *Bus) Notify(ev core.Event) {
	b.bus.Publish(AllEvents, ev)
	b.bus.Publish(string(ev.Kind), ev)
}

// Subscribe registers fn for a single event kind. Handlers run synchronously
// on the publishing goroutine and must not publish themselves.
func (b *Bus) Subscribe(kind core.EventKind, fn func(core.Event)) error {
	return b.bus.Subscribe(string(kind), fn)
}

// SubscribeAll registers fn for every event.
func (b *Bus) SubscribeAll(fn func(core.Event)) error {
	return b.bus.Subscribe(AllEvents, fn)
}

// Unsubscribe removes a handler registered with Subscribe.
func (b *Bus) Unsubscribe(kind core.EventKind, fn func(core.Event)) error {
	return b.bus.Unsubscribe(string(kind), fn)
}

// Recent returns up to the retained number of events for a station, oldest first.
func (b *Bus) Recent(stationID string) []core.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]core.Event(nil), b.recent[stationID]...)
}

// Forget drops the history of a station.
func (b *Bus) Forget(stationID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.recent, stationID)
}

func (b *Bus) remember(ev core.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := append(b.recent[ev.StationID], ev)
	if len(events) > b.history {
		events = append([]core.Event(nil), events[len(events)-b.history:]...)
	}
	b.recent[ev.StationID] = events
}

func (b *Bus) log(ev core.Event) {
	fields := []zap.Field{
		zap.String("kind", string(ev.Kind)),
		zap.String("station", ev.StationID),
	}
	if ev.PONumber != "" {
		fields = append(fields, zap.String("po", ev.PONumber))
	}
	if ev.ProductID != 0 {
		fields = append(fields, zap.Int("product_id", ev.ProductID), zap.Int("quantity", ev.Quantity))
	}
	if ev.Kind == core.EventWarning {
		b.logger.Warn(ev.Message, fields...)
		return
	}
	b.logger.Debug(ev.Message, fields...)
}
