package infrastructure

import (
	"context"
	"errors"
	"testing"

	"warden/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *recordingPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushAfterCommit(t *testing.T) {
	inner := &recordingPublisher{}
	transPublisher := NewNATSTransactionalPublisher(inner)

	testEvent := events.ModuleToggledEvent{
		GuildID: 456,
		Module:  "economy",
		Enabled: true,
	}

	// Publishing only queues the event
	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)
	assert.Len(t, inner.PublishedEvents, 0)

	// Flush hands the queue to the real publisher
	err = transPublisher.Flush(context.Background())
	require.NoError(t, err)
	require.Len(t, inner.PublishedEvents, 1)
	assert.Equal(t, testEvent, inner.PublishedEvents[0])

	// A second flush has nothing left to publish
	err = transPublisher.Flush(context.Background())
	require.NoError(t, err)
	assert.Len(t, inner.PublishedEvents, 1)
}

func TestNATSTransactionalPublisher_PreservesOrder(t *testing.T) {
	inner := &recordingPublisher{}
	transPublisher := NewNATSTransactionalPublisher(inner)

	locked := events.ChannelLockedEvent{GuildID: 1, ChannelID: 2, LockedBy: 3}
	unlocked := events.ChannelUnlockedEvent{GuildID: 1, ChannelID: 2}

	require.NoError(t, transPublisher.Publish(locked))
	require.NoError(t, transPublisher.Publish(unlocked))
	require.NoError(t, transPublisher.Flush(context.Background()))

	require.Len(t, inner.PublishedEvents, 2)
	assert.Equal(t, locked, inner.PublishedEvents[0])
	assert.Equal(t, unlocked, inner.PublishedEvents[1])
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	inner := &recordingPublisher{}
	transPublisher := NewNATSTransactionalPublisher(inner)

	testEvent := events.RoleMenuCreatedEvent{
		GuildID:   456,
		MessageID: 789,
		ChannelID: 101112,
		RoleCount: 3,
		CreatedBy: 131415,
	}

	require.NoError(t, transPublisher.Publish(testEvent))

	// Discard instead of flush: nothing reaches the real publisher
	transPublisher.Discard()
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, inner.PublishedEvents, 0)
}

func TestNATSTransactionalPublisher_FlushContinuesOnError(t *testing.T) {
	inner := &recordingPublisher{PublishError: errors.New("stream unavailable")}
	transPublisher := NewNATSTransactionalPublisher(inner)

	require.NoError(t, transPublisher.Publish(events.ModuleToggledEvent{GuildID: 1, Module: "fun"}))

	// Publish failures are logged, not surfaced; the queue still clears
	err := transPublisher.Flush(context.Background())
	require.NoError(t, err)

	inner.PublishError = nil
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, inner.PublishedEvents, 0)
}
