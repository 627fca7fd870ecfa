package eventbus

import (
	"runtime/debug"
	"sync"

	"starcleaner/internal/domain"
	"starcleaner/internal/logger"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventTokenSaved   = domain.EventTokenSaved
	EventTokenCleared = domain.EventTokenCleared
	EventConfigSaved  = domain.EventConfigSaved
	EventPageLoaded   = domain.EventPageLoaded
	EventReposRemoved = domain.EventReposRemoved
	EventLoggedOut    = domain.EventLoggedOut
	EventError        = domain.EventError
)

// Re-export domain event types
type TokenSavedEvent = domain.TokenSavedEvent
type TokenClearedEvent = domain.TokenClearedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type PageLoadedEvent = domain.PageLoadedEvent
type ReposRemovedEvent = domain.ReposRemovedEvent
type LoggedOutEvent = domain.LoggedOutEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus delivers events in publish order on a single dispatcher goroutine
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	log       *logger.Logger
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
		log:       logger.Named("eventbus"),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for all subscribers. It never blocks the caller;
// when the queue is full the event is dropped and logged.
func (b *bus) Publish(event DomainEvent) {
	b.log.Debug().Str("event", string(event.Type())).Msg("publish")

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		b.log.Warn().Str("event", string(event.Type())).Msg("event channel full, dropping event")
	}
}

// Subscribe registers handler and returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher after delivering queued events
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)
		case <-b.quit:
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(event DomainEvent) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error().Str("event", string(event.Type())).Interface("panic", r).
						Bytes("stack", debug.Stack()).Msg("event handler panic")
				}
			}()
			s.handler(event)
		}()
	}
}
