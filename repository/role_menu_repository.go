package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"warden/database"
	"warden/domain/entities"

	"github.com/jackc/pgx/v5"
)

// RoleMenuRepository implements the RoleMenuRepository interface
type RoleMenuRepository struct {
	q       Queryable
	guildID int64
}

// NewRoleMenuRepository creates a new role menu repository
func NewRoleMenuRepository(db *database.DB, guildID int64) *RoleMenuRepository {
	return &RoleMenuRepository{q: db.Pool, guildID: guildID}
}

// newRoleMenuRepository creates a new role menu repository with a transaction and guild scope
func newRoleMenuRepository(tx Queryable, guildID int64) *RoleMenuRepository {
	return &RoleMenuRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Create persists a new role menu
func (r *RoleMenuRepository) Create(ctx context.Context, menu *entities.RoleMenu) error {
	rolesJSON, err := json.Marshal(menu.Roles)
	if err != nil {
		return fmt.Errorf("failed to marshal menu roles: %w", err)
	}

	query := `
		INSERT INTO role_menus
		(guild_id, message_id, channel_id, title, description, roles, max_selections, active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		r.guildID, // Use repository's guild scope
		menu.MessageID,
		menu.ChannelID,
		menu.Title,
		menu.Description,
		rolesJSON,
		menu.MaxSelections,
		menu.Active,
		menu.CreatedBy,
	).Scan(&menu.ID, &menu.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create role menu for message %d: %w", menu.MessageID, err)
	}

	menu.GuildID = r.guildID
	return nil
}

func scanRoleMenu(row pgx.Row) (*entities.RoleMenu, error) {
	var menu entities.RoleMenu
	var rolesJSON []byte
	err := row.Scan(
		&menu.ID,
		&menu.GuildID,
		&menu.MessageID,
		&menu.ChannelID,
		&menu.Title,
		&menu.Description,
		&rolesJSON,
		&menu.MaxSelections,
		&menu.Active,
		&menu.CreatedBy,
		&menu.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rolesJSON, &menu.Roles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roles for menu %d: %w", menu.ID, err)
	}

	return &menu, nil
}

// GetByMessageID retrieves a menu by its Discord message ID
func (r *RoleMenuRepository) GetByMessageID(ctx context.Context, messageID int64) (*entities.RoleMenu, error) {
	query := `
		SELECT id, guild_id, message_id, channel_id, title, description, roles, max_selections, active, created_by, created_at
		FROM role_menus
		WHERE message_id = $1 AND guild_id = $2
	`

	menu, err := scanRoleMenu(r.q.QueryRow(ctx, query, messageID, r.guildID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get role menu for message %d: %w", messageID, err)
	}

	return menu, nil
}

// List returns all menus for the repository's guild
func (r *RoleMenuRepository) List(ctx context.Context) ([]*entities.RoleMenu, error) {
	query := `
		SELECT id, guild_id, message_id, channel_id, title, description, roles, max_selections, active, created_by, created_at
		FROM role_menus
		WHERE guild_id = $1
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role menus for guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	var menus []*entities.RoleMenu
	for rows.Next() {
		menu, err := scanRoleMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role menu: %w", err)
		}
		menus = append(menus, menu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role menus: %w", err)
	}

	return menus, nil
}

// UpdateDetails updates title, description, max selections and the role set
func (r *RoleMenuRepository) UpdateDetails(ctx context.Context, menu *entities.RoleMenu) error {
	rolesJSON, err := json.Marshal(menu.Roles)
	if err != nil {
		return fmt.Errorf("failed to marshal menu roles: %w", err)
	}

	query := `
		UPDATE role_menus
		SET title = $3, description = $4, roles = $5, max_selections = $6
		WHERE message_id = $1 AND guild_id = $2
	`

	result, err := r.q.Exec(ctx, query,
		menu.MessageID,
		r.guildID,
		menu.Title,
		menu.Description,
		rolesJSON,
		menu.MaxSelections,
	)
	if err != nil {
		return fmt.Errorf("failed to update role menu for message %d: %w", menu.MessageID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrMenuNotFound
	}

	return nil
}

// UpdateActive flips the active flag
func (r *RoleMenuRepository) UpdateActive(ctx context.Context, messageID int64, active bool) error {
	query := `
		UPDATE role_menus
		SET active = $3
		WHERE message_id = $1 AND guild_id = $2
	`

	result, err := r.q.Exec(ctx, query, messageID, r.guildID, active)
	if err != nil {
		return fmt.Errorf("failed to update active flag for message %d: %w", messageID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrMenuNotFound
	}

	return nil
}

// Delete removes a menu record
func (r *RoleMenuRepository) Delete(ctx context.Context, messageID int64) error {
	query := `
		DELETE FROM role_menus
		WHERE message_id = $1 AND guild_id = $2
	`

	result, err := r.q.Exec(ctx, query, messageID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to delete role menu for message %d: %w", messageID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrMenuNotFound
	}

	return nil
}
