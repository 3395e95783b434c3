// Package calculator computes per-member shares for a bill's line items.
package calculator

import "github.com/splittab/splittab/internal/models"

// ItemShare is one person's slice of a single line item.
type ItemShare struct {
	ItemID    string
	Name      string
	Amount    float64 // this person's share of the item
	SplitWith int     // how many people the item is split among
}

// MemberShare is one person's calculated share of a bill.
type MemberShare struct {
	UserID string
	Total  float64
	Items  []ItemShare
}

// Shares computes the equal-split share owed by each assignee across the
// bill's items: every assignee of an item owes price*quantity divided by
// the number of assignees. Items with no assignees contribute to nobody's
// share; the Unassigned total reports what is left for the bill owner to
// account for at settlement.
func Shares(bill *models.Bill) (shares map[string]*MemberShare, unassigned float64) {
	shares = make(map[string]*MemberShare)

	for i := range bill.Contents {
		item := &bill.Contents[i]
		if len(item.AssignedTo) == 0 {
			unassigned += item.Amount()
			continue
		}

		perPerson := item.Amount() / float64(len(item.AssignedTo))
		for _, userID := range item.AssignedTo {
			share, ok := shares[userID]
			if !ok {
				share = &MemberShare{UserID: userID}
				shares[userID] = share
			}
			share.Total += perPerson
			share.Items = append(share.Items, ItemShare{
				ItemID:    item.ID,
				Name:      item.Name,
				Amount:    perPerson,
				SplitWith: len(item.AssignedTo),
			})
		}
	}

	return shares, unassigned
}
