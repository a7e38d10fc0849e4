package authz

import (
	"errors"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// ErrDenied is the uniform authorization failure. Every denial surfaces as
// this single error so callers cannot distinguish which rule rejected them or
// whether the target row exists.
var ErrDenied = errors.New("authorization denied")

// Operation enumerates the row operations the engine decides on.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Caller is the authenticated identity a decision is evaluated for. A zero
// ID means unauthenticated, which satisfies no rule.
type Caller struct {
	ID   string
	Role domain.Role
}

func (c Caller) authenticated() bool {
	return c.ID != "" && c.Role.Valid()
}

// ProfileRow carries the profile columns the rules inspect.
type ProfileRow struct {
	ID string
}

// InquiryRow carries the inquiry columns the rules inspect.
type InquiryRow struct {
	AssignedTo *string
}

// FollowUpRow carries the follow-up columns the rules inspect, plus the
// parent inquiry its visibility is derived from.
type FollowUpRow struct {
	CreatedBy *string
	Parent    InquiryRow
}

// predicate evaluates one rule clause for a caller against a row.
type predicate[R any] func(Caller, R) bool

// rule is one named (operation, USING, WITH CHECK) tuple. A nil withCheck
// falls back to using, matching row-level-security semantics.
type rule[R any] struct {
	name      string
	op        Operation
	using     predicate[R]
	withCheck predicate[R]
}

func (p rule[R]) pre(c Caller, row R) bool {
	if p.using == nil {
		return false
	}
	return p.using(c, row)
}

func (p rule[R]) post(c Caller, row R) bool {
	if p.withCheck != nil {
		return p.withCheck(c, row)
	}
	return p.pre(c, row)
}

// ruleSet is the ordered list of rules for one table. Rules of the same
// operation combine with OR; evaluation order is the declaration order.
type ruleSet[R any] []rule[R]

// canSelect reports whether any select rule makes the row visible.
func (rs ruleSet[R]) canSelect(c Caller, row R) bool {
	if !c.authenticated() {
		return false
	}
	for _, p := range rs {
		if p.op == OpSelect && p.pre(c, row) {
			return true
		}
	}
	return false
}

// authorize decides a write. Insert checks WITH CHECK on the new row, delete
// checks USING on the old row, and update requires both clauses of the same
// rule to hold on old and new respectively.
func (rs ruleSet[R]) authorize(c Caller, op Operation, oldRow, newRow R) error {
	if !c.authenticated() {
		return ErrDenied
	}
	for _, p := range rs {
		if p.op != op {
			continue
		}
		switch op {
		case OpInsert:
			if p.post(c, newRow) {
				return nil
			}
		case OpUpdate:
			if p.pre(c, oldRow) && p.post(c, newRow) {
				return nil
			}
		case OpDelete:
			if p.pre(c, oldRow) {
				return nil
			}
		case OpSelect:
			// reads go through canSelect
		}
	}
	return ErrDenied
}
