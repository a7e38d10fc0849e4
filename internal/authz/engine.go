package authz

import "github.com/spec-kit/inquiry-service/internal/domain"

// Engine holds the rule tables and answers every (caller, operation, row)
// question the services ask. It is stateless; the caller's role is read fresh
// from the profile on each request by the auth middleware, never cached here.
type Engine struct {
	profiles  ruleSet[ProfileRow]
	inquiries ruleSet[InquiryRow]
	followUps ruleSet[FollowUpRow]
}

// NewEngine builds the engine with the fixed academy rule set.
func NewEngine() *Engine {
	e := &Engine{}

	e.profiles = ruleSet[ProfileRow]{
		{name: "profiles_staff_read", op: OpSelect, using: func(c Caller, _ ProfileRow) bool {
			return isLeadership(c.Role)
		}},
		{name: "profiles_self_read", op: OpSelect, using: func(c Caller, row ProfileRow) bool {
			return row.ID == c.ID
		}},
		{name: "profiles_admin_insert", op: OpInsert, withCheck: func(c Caller, _ ProfileRow) bool {
			return isAdmin(c.Role)
		}},
		{name: "profiles_admin_update", op: OpUpdate,
			using:     func(c Caller, _ ProfileRow) bool { return isAdmin(c.Role) },
			withCheck: func(c Caller, _ ProfileRow) bool { return isAdmin(c.Role) },
		},
		{name: "profiles_admin_delete", op: OpDelete, using: func(c Caller, _ ProfileRow) bool {
			return isAdmin(c.Role)
		}},
	}

	e.inquiries = ruleSet[InquiryRow]{
		{name: "inquiries_leadership_read", op: OpSelect, using: func(c Caller, _ InquiryRow) bool {
			return isLeadership(c.Role)
		}},
		{name: "inquiries_assignee_read", op: OpSelect, using: assignedToCaller},
		{name: "inquiries_leadership_insert", op: OpInsert, withCheck: func(c Caller, _ InquiryRow) bool {
			return isLeadership(c.Role)
		}},
		{name: "inquiries_leadership_update", op: OpUpdate,
			using:     func(c Caller, _ InquiryRow) bool { return isLeadership(c.Role) },
			withCheck: func(c Caller, _ InquiryRow) bool { return isLeadership(c.Role) },
		},
		// The assignee path requires assigned_to = caller on the new row too,
		// so an employee cannot reassign an inquiry away from themselves.
		{name: "inquiries_assignee_update", op: OpUpdate,
			using:     assignedToCaller,
			withCheck: assignedToCaller,
		},
		{name: "inquiries_admin_delete", op: OpDelete, using: func(c Caller, _ InquiryRow) bool {
			return isAdmin(c.Role)
		}},
	}

	e.followUps = ruleSet[FollowUpRow]{
		{name: "follow_ups_parent_read", op: OpSelect, using: func(c Caller, row FollowUpRow) bool {
			return e.inquiries.canSelect(c, row.Parent)
		}},
		{name: "follow_ups_parent_insert", op: OpInsert, withCheck: func(c Caller, row FollowUpRow) bool {
			return e.inquiries.canSelect(c, row.Parent)
		}},
		{name: "follow_ups_creator_update", op: OpUpdate,
			using:     createdByCaller,
			withCheck: createdByCaller,
		},
		// No delete rule exists: follow-ups only disappear when the parent
		// inquiry cascade-deletes them.
	}

	return e
}

// CanSelectProfile reports whether the caller may read the profile row.
func (e *Engine) CanSelectProfile(c Caller, row ProfileRow) bool {
	return e.profiles.canSelect(c, row)
}

// AuthorizeProfileInsert decides profile creation.
func (e *Engine) AuthorizeProfileInsert(c Caller, row ProfileRow) error {
	return e.profiles.authorize(c, OpInsert, ProfileRow{}, row)
}

// AuthorizeProfileUpdate decides a profile mutation against old and new state.
func (e *Engine) AuthorizeProfileUpdate(c Caller, oldRow, newRow ProfileRow) error {
	return e.profiles.authorize(c, OpUpdate, oldRow, newRow)
}

// AuthorizeProfileDelete decides profile removal.
func (e *Engine) AuthorizeProfileDelete(c Caller, row ProfileRow) error {
	return e.profiles.authorize(c, OpDelete, row, ProfileRow{})
}

// CanSelectInquiry reports whether the caller may read the inquiry row.
func (e *Engine) CanSelectInquiry(c Caller, row InquiryRow) bool {
	return e.inquiries.canSelect(c, row)
}

// AuthorizeInquiryInsert decides inquiry creation.
func (e *Engine) AuthorizeInquiryInsert(c Caller, row InquiryRow) error {
	return e.inquiries.authorize(c, OpInsert, InquiryRow{}, row)
}

// AuthorizeInquiryUpdate decides an inquiry mutation against old and new state.
func (e *Engine) AuthorizeInquiryUpdate(c Caller, oldRow, newRow InquiryRow) error {
	return e.inquiries.authorize(c, OpUpdate, oldRow, newRow)
}

// AuthorizeInquiryDelete decides inquiry removal.
func (e *Engine) AuthorizeInquiryDelete(c Caller, row InquiryRow) error {
	return e.inquiries.authorize(c, OpDelete, row, InquiryRow{})
}

// CanSelectFollowUp reports whether the caller may read the follow-up row.
func (e *Engine) CanSelectFollowUp(c Caller, row FollowUpRow) bool {
	return e.followUps.canSelect(c, row)
}

// AuthorizeFollowUpInsert decides follow-up creation.
func (e *Engine) AuthorizeFollowUpInsert(c Caller, row FollowUpRow) error {
	return e.followUps.authorize(c, OpInsert, FollowUpRow{}, row)
}

// AuthorizeFollowUpUpdate decides a follow-up mutation against old and new state.
func (e *Engine) AuthorizeFollowUpUpdate(c Caller, oldRow, newRow FollowUpRow) error {
	return e.followUps.authorize(c, OpUpdate, oldRow, newRow)
}

// AuthorizeFollowUpDelete always denies; the application never deletes
// follow-ups directly.
func (e *Engine) AuthorizeFollowUpDelete(c Caller, row FollowUpRow) error {
	return e.followUps.authorize(c, OpDelete, row, FollowUpRow{})
}

func isAdmin(r domain.Role) bool {
	switch r {
	case domain.RoleAdmin:
		return true
	case domain.RoleCoLeader, domain.RoleEmployee:
		return false
	}
	return false
}

// isLeadership covers the roles with full inquiry read/write parity.
func isLeadership(r domain.Role) bool {
	switch r {
	case domain.RoleAdmin, domain.RoleCoLeader:
		return true
	case domain.RoleEmployee:
		return false
	}
	return false
}

func assignedToCaller(c Caller, row InquiryRow) bool {
	return row.AssignedTo != nil && *row.AssignedTo == c.ID
}

func createdByCaller(c Caller, row FollowUpRow) bool {
	return row.CreatedBy != nil && *row.CreatedBy == c.ID
}
