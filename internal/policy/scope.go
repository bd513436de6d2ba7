// Package policy decides which owned records a user may see or change.
package policy

import (
	"housemanagement/internal/models"

	"gorm.io/gorm"
)

type Resource int

const (
	Designs Resource = iota
	Quotes
	Projects
	Conversations
)

func (r Resource) String() string {
	switch r {
	case Designs:
		return "designs"
	case Quotes:
		return "quotes"
	case Projects:
		return "projects"
	case Conversations:
		return "conversations"
	}
	return "unknown"
}

// ownerColumn is table-qualified so scopes survive joins.
func (r Resource) ownerColumn() string {
	switch r {
	case Designs:
		return "house_designs.owner_id"
	case Quotes:
		return "quotes.requested_by_id"
	case Projects:
		return "construction_projects.owner_id"
	case Conversations:
		return "conversations.customer_id"
	}
	return ""
}

// Scope is the visibility rule for one user over one resource kind.
// Superusers see every record; staff additionally see every conversation.
// Everyone else sees only records they own, request or are the customer of.
type Scope struct {
	user      *models.User
	resource  Resource
	ownOnly   bool
	staffWide bool
	system    bool
}

func For(user *models.User, resource Resource) Scope {
	return Scope{user: user, resource: resource}
}

// Owned ignores the user's role and matches only their own records.
func Owned(user *models.User, resource Resource) Scope {
	return Scope{user: user, resource: resource, ownOnly: true}
}

// Participants applies the conversation rule to another resource, so staff
// can reach the project behind any chat room.
func Participants(user *models.User, resource Resource) Scope {
	return Scope{user: user, resource: resource, staffWide: true}
}

// System sees every record regardless of user. Callers must run their own
// ownership checks.
func System(resource Resource) Scope {
	return Scope{resource: resource, system: true}
}

func (s Scope) Resource() Resource {
	return s.resource
}

func (s Scope) User() *models.User {
	return s.user
}

func (s Scope) SeesAll() bool {
	if s.system {
		return true
	}
	if s.user == nil || s.ownOnly {
		return false
	}
	if s.resource == Conversations || s.staffWide {
		return s.user.CanSeeAllConversations()
	}
	return s.user.CanSeeEverything()
}

// Apply restricts a query to the visible rows. Use with tx.Scopes(scope.Apply).
func (s Scope) Apply(tx *gorm.DB) *gorm.DB {
	if s.system {
		return tx
	}
	if s.user == nil {
		return tx.Where("1 = 0")
	}
	if s.SeesAll() {
		return tx
	}
	return tx.Where(s.resource.ownerColumn()+" = ?", s.user.ID)
}

// Allows checks an already loaded record against the same rule.
func (s Scope) Allows(ownerID uint) bool {
	if s.system {
		return true
	}
	if s.user == nil {
		return false
	}
	return s.SeesAll() || s.user.ID == ownerID
}
