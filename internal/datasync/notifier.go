package datasync

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Subscriber re-fetches its data when told to. Implementations must be
// comparable (normally a pointer); the same value registered twice under one
// type is stored once.
type Subscriber interface {
	Refresh(dt DataType)
}

type funcSubscriber struct {
	fn func(DataType)
}

func (f *funcSubscriber) Refresh(dt DataType) { f.fn(dt) }

// SubscriberFunc wraps fn in a new Subscriber. Each call returns a distinct
// identity, so keep the result to subscribe it again or compare it.
func SubscriberFunc(fn func(DataType)) Subscriber {
	return &funcSubscriber{fn: fn}
}

// Notifier is a registry of subscribers per data type sharing one polling
// scheduler. The scheduler runs while at least one subscription exists.
type Notifier struct {
	logger    zerolog.Logger
	scheduler *PollingScheduler

	mu   sync.Mutex
	subs map[DataType][]Subscriber
}

func NewNotifier(clock Clock, interval time.Duration, logger zerolog.Logger) *Notifier {
	n := &Notifier{
		logger: logger.With().Str("component", "datasync").Logger(),
		subs:   make(map[DataType][]Subscriber),
	}
	n.scheduler = NewPollingScheduler(clock, interval, func() { n.Refresh() }, n.logger)
	return n
}

// Subscribe registers sub under dt and returns a function that removes it.
// The returned function is safe to call more than once.
func (n *Notifier) Subscribe(dt DataType, sub Subscriber) (unsubscribe func()) {
	n.mu.Lock()
	if !contains(n.subs[dt], sub) {
		n.subs[dt] = append(n.subs[dt], sub)
	}
	n.scheduler.Start()
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { n.unsubscribe(dt, sub) })
	}
}

func (n *Notifier) unsubscribe(dt DataType, sub Subscriber) {
	n.mu.Lock()
	list := n.subs[dt]
	for i, s := range list {
		if s == sub {
			n.subs[dt] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(n.subs[dt]) == 0 {
		delete(n.subs, dt)
	}
	if len(n.subs) == 0 {
		n.scheduler.Stop()
	}
	n.mu.Unlock()
}

// Notify calls every subscriber of dt registered at the time of the call, in
// registration order, on the caller's goroutine.
func (n *Notifier) Notify(dt DataType) {
	n.mu.Lock()
	list := append([]Subscriber(nil), n.subs[dt]...)
	n.mu.Unlock()

	for _, sub := range list {
		sub.Refresh(dt)
	}
}

// Refresh notifies the given types, or every type when called with none.
func (n *Notifier) Refresh(dts ...DataType) {
	if len(dts) == 0 {
		dts = AllDataTypes
	}
	for _, dt := range dts {
		n.Notify(dt)
	}
}

// Subscribers reports how many subscribers dt has.
func (n *Notifier) Subscribers(dt DataType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[dt])
}

func (n *Notifier) Polling() bool { return n.scheduler.Running() }

// Close drops all subscriptions and stops polling.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = make(map[DataType][]Subscriber)
	n.scheduler.Stop()
}

func contains(list []Subscriber, sub Subscriber) bool {
	for _, s := range list {
		if s == sub {
			return true
		}
	}
	return false
}
