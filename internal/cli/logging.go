package cli

import (
	"fmt"
	"os"

	"starcleaner/internal/config"
	"starcleaner/internal/eventbus"
	"starcleaner/internal/logger"
)

// initLogging points the root logger at the log file. The terminal belongs
// to the UI, so when the file can't be opened logging is off.
func initLogging(s config.Settings) (closeFn func()) {
	path := s.LogFile
	if path == "" {
		path = logger.DefaultPath()
	}

	f, err := logger.OpenFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		logger.Init(logger.Options{Level: "off"})
		return func() {}
	}

	logger.Init(logger.Options{Level: s.LogLevel, Writer: f})
	return func() { _ = f.Close() }
}

// subscribeEventLog records domain events in the log
func subscribeEventLog(bus eventbus.EventBus) {
	log := logger.Named("events")

	bus.Subscribe(eventbus.EventPageLoaded, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.PageLoadedEvent)
		log.Debug().Int("page", ev.Page).Int("count", ev.Count).Bool("has_more", ev.HasMore).
			Str("sort", ev.Sort.String()).Msg("page loaded")
	})
	bus.Subscribe(eventbus.EventReposRemoved, func(e eventbus.DomainEvent) {
		log.Info().Int("count", len(e.(eventbus.ReposRemovedEvent).IDs)).Msg("repositories unstarred")
	})
	bus.Subscribe(eventbus.EventLoggedOut, func(e eventbus.DomainEvent) {
		log.Info().Bool("forced", e.(eventbus.LoggedOutEvent).Forced).Msg("logged out")
	})
	bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.ErrorEvent)
		log.Warn().Err(ev.Err).Str("message", ev.Message).Msg("error shown")
	})
	bus.Subscribe(eventbus.EventTokenSaved, func(eventbus.DomainEvent) {
		log.Info().Msg("token saved")
	})
	bus.Subscribe(eventbus.EventTokenCleared, func(eventbus.DomainEvent) {
		log.Info().Msg("token cleared")
	})
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		log.Debug().Str("path", e.(eventbus.ConfigSavedEvent).Path).Msg("config saved")
	})
}
