package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/splittab/splittab/internal/metrics"
	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

// GroupService owns group lifecycle: creation, join-by-code, leaving and
// the automatic deletion of emptied groups.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create makes a new group with the creator as its first member. The join
// code is generated by the store under its unique index.
func (s *GroupService) Create(ctx context.Context, creatorID, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}

	group := &models.Group{
		Name:      name,
		CreatorID: creatorID,
		Members:   []string{creatorID},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("create group failed", "creator_id", creatorID, "error", err)
		return nil, err
	}

	metrics.GroupsCreated.Inc()
	slog.Info("group created", "group_id", group.ID, "creator_id", creatorID, "code", group.Code)
	return group, nil
}

// Get retrieves a group by ID.
func (s *GroupService) Get(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// Join adds userID to the group with the given join code. The code is
// normalized to uppercase so customers can type it either way. A failed
// join leaves the member set untouched.
func (s *GroupService) Join(ctx context.Context, code, userID string) (*models.Group, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: join code is required", ErrValidation)
	}

	group, err := s.store.GetGroupByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if group.HasMember(userID) {
		return nil, ErrAlreadyMember
	}

	if err := s.store.AddGroupMember(ctx, group.ID, userID); err != nil {
		slog.Error("join group failed", "group_id", group.ID, "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("user joined group", "group_id", group.ID, "user_id", userID)
	return s.store.GetGroup(ctx, group.ID)
}

// Leave removes userID from the group. The creator may not leave while
// other members remain. When the last member leaves, the group itself is
// deleted and Leave reports deleted=true with a nil group.
func (s *GroupService) Leave(ctx context.Context, groupID, userID string) (*models.Group, bool, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, false, err
	}
	if !group.HasMember(userID) {
		return nil, false, ErrNotMember
	}
	if userID == group.CreatorID && len(group.Members) > 1 {
		return nil, false, ErrCreatorMustTransfer
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return nil, false, err
	}

	group, err = s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, false, err
	}
	if len(group.Members) == 0 {
		if err := s.store.DeleteGroup(ctx, groupID); err != nil {
			return nil, false, err
		}
		slog.Info("group deleted after last member left", "group_id", groupID, "user_id", userID)
		return nil, true, nil
	}

	slog.Info("user left group", "group_id", groupID, "user_id", userID)
	return group, false, nil
}

// ListUserGroups returns every group the user belongs to.
func (s *GroupService) ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, userID)
}

// Members resolves the group's member IDs to user records, preserving the
// stored membership order. IDs with no matching user are skipped, which
// read paths tolerate the same way they tolerate dangling bill pointers.
func (s *GroupService) Members(ctx context.Context, group *models.Group) ([]*models.User, error) {
	byID, err := s.store.GetUsersByIDs(ctx, group.Members)
	if err != nil {
		return nil, err
	}
	members := make([]*models.User, 0, len(byID))
	for _, id := range group.Members {
		if u, ok := byID[id]; ok {
			members = append(members, u)
		}
	}
	return members, nil
}
