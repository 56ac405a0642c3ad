// Package auth abstracts the platform's role system into a single
// capability check. The core stays policy-agnostic: handlers ask whether an
// actor can perform an action, never how roles are assigned.
package auth

type Action string

const (
	ActionManageCatalog  Action = "manage_catalog"
	ActionManagePayments Action = "manage_payments"
	ActionSetStock       Action = "set_stock"
	ActionReviewOrders   Action = "review_orders"
	ActionViewStats      Action = "view_stats"
	ActionManageBlacklist Action = "manage_blacklist"
)

type Authorizer interface {
	Can(actorID string, action Action) bool
}

// RoleAuthorizer grants owner actions to owner ids and staff actions to both
// staff and owner ids.
type RoleAuthorizer struct {
	staff  map[string]bool
	owners map[string]bool
}

func NewRoleAuthorizer(staffIDs, ownerIDs []string) *RoleAuthorizer {
	a := &RoleAuthorizer{
		staff:  make(map[string]bool, len(staffIDs)),
		owners: make(map[string]bool, len(ownerIDs)),
	}
	for _, id := range staffIDs {
		a.staff[id] = true
	}
	for _, id := range ownerIDs {
		a.owners[id] = true
	}
	return a
}

func (a *RoleAuthorizer) Can(actorID string, action Action) bool {
	switch action {
	case ActionManageCatalog, ActionManagePayments:
		return a.owners[actorID]
	case ActionSetStock, ActionReviewOrders, ActionViewStats, ActionManageBlacklist:
		return a.staff[actorID] || a.owners[actorID]
	}
	return false
}
