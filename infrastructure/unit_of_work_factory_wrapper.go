package infrastructure

import (
	"warden/application"
	"warden/database"
	"warden/domain/interfaces"
	"warden/repository"
)

// UnitOfWorkFactoryWrapper wraps the repository UnitOfWorkFactory to provide transactional publishers
type UnitOfWorkFactoryWrapper struct {
	repoFactory interface {
		CreateForGuildWithPublisher(guildID int64, transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactoryWrapper creates a new wrapper that implements application.UnitOfWorkFactory
func NewUnitOfWorkFactoryWrapper(db *database.DB, eventPublisher interfaces.EventPublisher) application.UnitOfWorkFactory {
	repoFactory := repository.NewUnitOfWorkFactory(db)
	return &UnitOfWorkFactoryWrapper{
		repoFactory:    repoFactory,
		eventPublisher: eventPublisher,
	}
}

// CreateForGuild creates a new UnitOfWork with a transactional event publisher
func (w *UnitOfWorkFactoryWrapper) CreateForGuild(guildID int64) application.UnitOfWork {
	// Each unit of work gets its own pending-event buffer
	transactionalPublisher := NewNATSTransactionalPublisher(w.eventPublisher)

	return w.repoFactory.CreateForGuildWithPublisher(guildID, transactionalPublisher)
}
