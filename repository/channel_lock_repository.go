package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warden/database"
	"warden/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ChannelLockRepository implements the ChannelLockRepository interface
type ChannelLockRepository struct {
	q       Queryable
	guildID int64
}

// NewChannelLockRepository creates a new channel lock repository
func NewChannelLockRepository(db *database.DB, guildID int64) *ChannelLockRepository {
	return &ChannelLockRepository{q: db.Pool, guildID: guildID}
}

// newChannelLockRepository creates a new channel lock repository with a transaction and guild scope
func newChannelLockRepository(tx Queryable, guildID int64) *ChannelLockRepository {
	return &ChannelLockRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Create persists a new channel lock
func (r *ChannelLockRepository) Create(ctx context.Context, lock *entities.ChannelLock) error {
	query := `
		INSERT INTO channel_locks
		(id, guild_id, channel_id, locked_by, reason, locked_at, duration_ms, unlock_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.Exec(ctx, query,
		lock.ID,
		r.guildID, // Use repository's guild scope
		lock.ChannelID,
		lock.LockedBy,
		lock.Reason,
		lock.LockedAt,
		lock.Duration.Milliseconds(),
		lock.UnlockAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create channel lock for channel %d: %w", lock.ChannelID, err)
	}

	lock.GuildID = r.guildID
	return nil
}

func scanChannelLock(row pgx.Row) (*entities.ChannelLock, error) {
	var lock entities.ChannelLock
	var durationMs int64
	err := row.Scan(
		&lock.ID,
		&lock.GuildID,
		&lock.ChannelID,
		&lock.LockedBy,
		&lock.Reason,
		&lock.LockedAt,
		&durationMs,
		&lock.UnlockAt,
	)
	if err != nil {
		return nil, err
	}

	lock.Duration = time.Duration(durationMs) * time.Millisecond
	return &lock, nil
}

// GetByChannel retrieves the lock for a channel, if any
func (r *ChannelLockRepository) GetByChannel(ctx context.Context, channelID int64) (*entities.ChannelLock, error) {
	query := `
		SELECT id, guild_id, channel_id, locked_by, reason, locked_at, duration_ms, unlock_at
		FROM channel_locks
		WHERE channel_id = $1 AND guild_id = $2
	`

	lock, err := scanChannelLock(r.q.QueryRow(ctx, query, channelID, r.guildID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrLockNotFound
		}
		return nil, fmt.Errorf("failed to get channel lock for channel %d: %w", channelID, err)
	}

	return lock, nil
}

// List returns all locks for the repository's guild
func (r *ChannelLockRepository) List(ctx context.Context) ([]*entities.ChannelLock, error) {
	query := `
		SELECT id, guild_id, channel_id, locked_by, reason, locked_at, duration_ms, unlock_at
		FROM channel_locks
		WHERE guild_id = $1
		ORDER BY unlock_at
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel locks for guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	return collectChannelLocks(rows)
}

// ListAllGuilds returns every persisted lock across guilds. Ignores the
// repository's guild scope; used by the startup reconciler only.
func (r *ChannelLockRepository) ListAllGuilds(ctx context.Context) ([]*entities.ChannelLock, error) {
	query := `
		SELECT id, guild_id, channel_id, locked_by, reason, locked_at, duration_ms, unlock_at
		FROM channel_locks
		ORDER BY unlock_at
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel locks: %w", err)
	}
	defer rows.Close()

	return collectChannelLocks(rows)
}

func collectChannelLocks(rows pgx.Rows) ([]*entities.ChannelLock, error) {
	var locks []*entities.ChannelLock
	for rows.Next() {
		lock, err := scanChannelLock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel lock: %w", err)
		}
		locks = append(locks, lock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel locks: %w", err)
	}

	return locks, nil
}

// Delete removes a lock record. Deleting a missing record is not an error, so
// a release can be retried safely.
func (r *ChannelLockRepository) Delete(ctx context.Context, channelID int64) error {
	query := `
		DELETE FROM channel_locks
		WHERE channel_id = $1 AND guild_id = $2
	`

	if _, err := r.q.Exec(ctx, query, channelID, r.guildID); err != nil {
		return fmt.Errorf("failed to delete channel lock for channel %d: %w", channelID, err)
	}

	return nil
}
