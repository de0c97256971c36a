// Package saturation implements the given-clause saturation loop, its three
// clause containers, and the limited-resource-strategy (LRS) dynamic limits
// (spec §4.6-§4.9), grounded on original_source/Saturation/Otter.cpp's
// event-hook design and the teacher repo's own solve-loop idiom
// (container/heap-based priority selection, a single struct owning all
// mutable state).
package saturation

import (
	"github.com/petrellabs/saturate/kernel"
	"github.com/sirupsen/logrus"
)

// EventKind names one of the three events a container publishes (spec
// §4.6).
type EventKind int

const (
	EventAdded EventKind = iota
	EventSelected
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventSelected:
		return "selected"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Handler reacts to a container event for a clause.
type Handler func(c *kernel.Clause)

// EventBus is a minimal synchronous publish/subscribe hub: handlers run
// inline, in subscription order, on the caller's goroutine (the core is
// single-threaded per spec §5, so there is no need for anything heavier).
type EventBus struct {
	handlers map[EventKind][]Handler
	log      *logrus.Entry
}

// NewEventBus returns an empty bus. log may be nil; a nil logger disables
// the bus's own debug tracing (container add/remove churn is noisy, so it
// is opt-in).
func NewEventBus(log *logrus.Entry) *EventBus {
	return &EventBus{handlers: make(map[EventKind][]Handler), log: log}
}

// Subscribe registers h to run whenever kind fires.
func (b *EventBus) Subscribe(kind EventKind, h Handler) {
	b.handlers[kind] = append(b.handlers[kind], h)
}

// Publish fires kind for c, running every subscriber in registration order.
func (b *EventBus) Publish(kind EventKind, c *kernel.Clause) {
	if b.log != nil {
		b.log.WithFields(logrus.Fields{"event": kind.String(), "clause": c.ID()}).Debug("container event")
	}
	for _, h := range b.handlers[kind] {
		h(c)
	}
}
