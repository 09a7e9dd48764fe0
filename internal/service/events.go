package service

import (
	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

// publish delivers an event after the change is committed. Subscriber
// failures are logged and never fail the operation.
func publish(bus domain.EventPublisher, logger *zerolog.Logger, eventType string, payload interface{}) {
	if bus == nil {
		return
	}
	if err := bus.PublishJSON(eventType, payload); err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
