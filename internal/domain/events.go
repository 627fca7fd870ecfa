package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventTokenSaved   EventType = "TokenSaved"
	EventTokenCleared EventType = "TokenCleared"
	EventConfigSaved  EventType = "ConfigSaved"
	EventPageLoaded   EventType = "PageLoaded"
	EventReposRemoved EventType = "ReposRemoved"
	EventLoggedOut    EventType = "LoggedOut"
	EventError        EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// TokenSavedEvent is emitted after the credential was written to disk
type TokenSavedEvent struct{}

func (e TokenSavedEvent) Type() EventType { return EventTokenSaved }

// TokenClearedEvent is emitted after the credential was removed from disk
type TokenClearedEvent struct{}

func (e TokenClearedEvent) Type() EventType { return EventTokenCleared }

// ConfigSavedEvent is emitted whenever the config file is rewritten
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// PageLoadedEvent is emitted when a page of starred repositories was applied
type PageLoadedEvent struct {
	Page    int
	Count   int
	HasMore bool
	Sort    Sort
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// ReposRemovedEvent is emitted when unstarred repositories leave the list
type ReposRemovedEvent struct {
	IDs []int64
}

func (e ReposRemovedEvent) Type() EventType { return EventReposRemoved }

// LoggedOutEvent is emitted when the session is dropped
type LoggedOutEvent struct {
	Forced bool // true when caused by an expired credential
}

func (e LoggedOutEvent) Type() EventType { return EventLoggedOut }

// ErrorEvent is emitted when an error is surfaced to the user
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
