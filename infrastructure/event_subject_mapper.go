package infrastructure

import (
	"fmt"

	"warden/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeModuleToggled:
		return "guilds.modules.toggled"
	case events.EventTypeRoleMenuCreated:
		return "guilds.rolemenus.created"
	case events.EventTypeRoleMenuDeleted:
		return "guilds.rolemenus.deleted"
	case events.EventTypeRolesSelected:
		return "guilds.rolemenus.selected"
	case events.EventTypeChannelLocked:
		return "guilds.lockdown.locked"
	case events.EventTypeChannelUnlocked:
		return "guilds.lockdown.unlocked"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "guilds.modules.toggled":
		return events.EventTypeModuleToggled
	case "guilds.rolemenus.created":
		return events.EventTypeRoleMenuCreated
	case "guilds.rolemenus.deleted":
		return events.EventTypeRoleMenuDeleted
	case "guilds.rolemenus.selected":
		return events.EventTypeRolesSelected
	case "guilds.lockdown.locked":
		return events.EventTypeChannelLocked
	case "guilds.lockdown.unlocked":
		return events.EventTypeChannelUnlocked
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"guilds.modules.toggled",
		"guilds.rolemenus.created",
		"guilds.rolemenus.deleted",
		"guilds.rolemenus.selected",
		"guilds.lockdown.locked",
		"guilds.lockdown.unlocked",
	}
}
