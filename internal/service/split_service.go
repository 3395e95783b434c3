package service

import (
	"context"
	"log/slog"

	"github.com/splittab/splittab/internal/calculator"
	"github.com/splittab/splittab/internal/metrics"
	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/storage"
)

// SplitService assigns subsets of a group's members to individual bill
// items and computes the resulting per-member shares.
type SplitService struct {
	store storage.Store
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store) *SplitService {
	return &SplitService{store: store}
}

// SplitView is the read-only assembly ShowSplit returns for presentation:
// the item, the group's full roster and the currently assigned users.
type SplitView struct {
	Item     *models.OrderItem
	Members  []*models.User
	Assigned []*models.User
}

// loadForSplit fetches and cross-checks the group, the bill and the item.
// The caller must be a member, and the bill must be the group's active
// bill, which is what keeps assignees inside the attached group's roster.
func (s *SplitService) loadForSplit(ctx context.Context, callerID, groupID, billID, itemID string) (*models.Group, *models.Bill, *models.OrderItem, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !group.HasMember(callerID) {
		return nil, nil, nil, ErrNotMember
	}
	if group.ActiveBillID != billID {
		return nil, nil, nil, ErrNotAttached
	}

	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, nil, nil, err
	}
	item := bill.Item(itemID)
	if item == nil {
		return nil, nil, nil, storage.ErrNotFound
	}
	return group, bill, item, nil
}

// ShowSplit assembles the item's current assignees and the group's member
// roster for display.
func (s *SplitService) ShowSplit(ctx context.Context, callerID, groupID, billID, itemID string) (*SplitView, error) {
	group, _, item, err := s.loadForSplit(ctx, callerID, groupID, billID, itemID)
	if err != nil {
		return nil, err
	}

	byID, err := s.store.GetUsersByIDs(ctx, group.Members)
	if err != nil {
		return nil, err
	}

	view := &SplitView{Item: item}
	for _, id := range group.Members {
		if u, ok := byID[id]; ok {
			view.Members = append(view.Members, u)
		}
	}
	for _, id := range item.AssignedTo {
		if u, ok := byID[id]; ok {
			view.Assigned = append(view.Assigned, u)
		}
	}
	return view, nil
}

// Assign replaces the item's assignee set with exactly userIDs. This is a
// full replacement, not a union: callers send the complete set of members
// responsible for the item, and an empty set leaves the item unassigned.
// If any id is not in the group's member set the call fails with
// ErrNotGroupMember and the existing assignment is untouched.
func (s *SplitService) Assign(ctx context.Context, callerID, groupID, billID, itemID string, userIDs []string) (*models.Bill, error) {
	group, _, _, err := s.loadForSplit(ctx, callerID, groupID, billID, itemID)
	if err != nil {
		return nil, err
	}

	// Dedupe while preserving order; assignment is a set.
	seen := make(map[string]bool, len(userIDs))
	assignees := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !group.HasMember(id) {
			return nil, ErrNotGroupMember
		}
		assignees = append(assignees, id)
	}

	if err := s.store.SetItemAssignees(ctx, billID, itemID, assignees); err != nil {
		return nil, err
	}

	metrics.ItemsAssigned.Inc()
	slog.Info("item split assigned",
		"bill_id", billID,
		"item_id", itemID,
		"group_id", groupID,
		"assignees", len(assignees),
	)
	return s.store.GetBill(ctx, billID)
}

// Shares computes the equal-split amount each member owes across the
// bill's items, plus the total left unassigned.
func (s *SplitService) Shares(bill *models.Bill) (map[string]*calculator.MemberShare, float64) {
	return calculator.Shares(bill)
}
