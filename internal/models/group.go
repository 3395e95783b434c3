package models

// Group represents a set of customers collaborating to pay a shared bill.
//
// A group points at most at one bill at a time through ActiveBillID; the
// linker service is the only sanctioned writer of that pointer.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g. "Friday Dinner").
	Name string

	// CreatorID is the user who created the group. The creator is always
	// a member and cannot leave while other members remain.
	CreatorID string

	// Members holds the user IDs of everyone in the group, creator included.
	// Membership is tested by containment; order carries no meaning.
	Members []string

	// ActiveBillID is the bill this group is currently splitting, or empty
	// if none. It only ever references one bill at a time.
	ActiveBillID string

	// Code is the unique 6-character join code members share out of band.
	Code string

	// Active defaults to true; kept for the presentation layer.
	Active bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is in the group's member set.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
