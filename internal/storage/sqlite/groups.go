package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splittab/splittab/internal/codes"
	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

// CreateGroup persists a new group together with its initial members.
// The join code is generated here and retried on unique-index collision;
// a collision never escapes to the caller.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	group.Active = true

	for {
		group.Code = codes.Generate()
		err := s.insertGroup(ctx, group)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("failed to create group: %w", err)
		}
		// Code collision: regenerate and try again.
	}
}

func (s *SQLiteStore) insertGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, creator_id, active_bill_id, code, active, created_at) VALUES (?, ?, ?, NULL, ?, ?, ?)",
		group.ID, group.Name, group.CreatorID, group.Code, group.Active, group.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, userID := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id) VALUES (?, ?)",
			group.ID, userID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetGroup retrieves a group by ID, including its member set.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, "id = ?", groupID)
}

// GetGroupByCode retrieves a group by its join code.
func (s *SQLiteStore) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	return s.getGroup(ctx, "code = ?", code)
}

// GetGroupByActiveBill retrieves the group currently attached to the bill.
func (s *SQLiteStore) GetGroupByActiveBill(ctx context.Context, billID string) (*models.Group, error) {
	return s.getGroup(ctx, "active_bill_id = ?", billID)
}

func (s *SQLiteStore) getGroup(ctx context.Context, where string, arg any) (*models.Group, error) {
	query := `
		SELECT id, name, creator_id, COALESCE(active_bill_id, ''), code, active, created_at
		FROM groups
		WHERE ` + where

	group := &models.Group{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&group.ID,
		&group.Name,
		&group.CreatorID,
		&group.ActiveBillID,
		&group.Code,
		&group.Active,
		&group.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if group.Members, err = s.groupMembers(ctx, group.ID); err != nil {
		return nil, err
	}

	return group, nil
}

func (s *SQLiteStore) groupMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

// AddGroupMember appends userID to the group's member set.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id) VALUES (?, ?)",
		groupID, userID,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveGroupMember removes userID from the group's member set.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteGroup removes a group; membership rows go with it via cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListGroupsByMember returns every group userID belongs to.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.listGroups(ctx,
		"SELECT group_id FROM group_members WHERE user_id = ?", userID)
}

// ListGroupsByCreator returns the creator's groups sorted by name.
func (s *SQLiteStore) ListGroupsByCreator(ctx context.Context, creatorID string) ([]*models.Group, error) {
	return s.listGroups(ctx,
		"SELECT id FROM groups WHERE creator_id = ? ORDER BY name", creatorID)
}

func (s *SQLiteStore) listGroups(ctx context.Context, idQuery string, arg any) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, idQuery, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group ids: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// SetActiveBill repoints the group's active bill; an empty billID clears it.
func (s *SQLiteStore) SetActiveBill(ctx context.Context, groupID, billID string) error {
	var value any
	if billID != "" {
		value = billID
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET active_bill_id = ? WHERE id = ?",
		value, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to set active bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ClearActiveBill clears the pointer on every group referencing the bill.
func (s *SQLiteStore) ClearActiveBill(ctx context.Context, billID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET active_bill_id = NULL WHERE active_bill_id = ?",
		billID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear active bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count detached groups: %w", err)
	}
	return int(n), nil
}
