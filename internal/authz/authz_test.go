package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

var (
	admin    = Caller{ID: "admin-1", Role: domain.RoleAdmin}
	coLeader = Caller{ID: "colead-1", Role: domain.RoleCoLeader}
	employee = Caller{ID: "emp-1", Role: domain.RoleEmployee}
	otherEmp = Caller{ID: "emp-2", Role: domain.RoleEmployee}
	anon     = Caller{}
)

func strPtr(s string) *string { return &s }

func TestProfileSelectScoping(t *testing.T) {
	e := NewEngine()

	own := ProfileRow{ID: employee.ID}
	foreign := ProfileRow{ID: admin.ID}

	assert.True(t, e.CanSelectProfile(employee, own), "employee sees own profile")
	assert.False(t, e.CanSelectProfile(employee, foreign), "employee sees no other profile")

	for _, c := range []Caller{admin, coLeader} {
		assert.True(t, e.CanSelectProfile(c, own))
		assert.True(t, e.CanSelectProfile(c, foreign))
		assert.True(t, e.CanSelectProfile(c, ProfileRow{ID: "anyone-else"}))
	}
}

func TestProfileWritesAreAdminOnly(t *testing.T) {
	e := NewEngine()
	row := ProfileRow{ID: "emp-9"}

	require.NoError(t, e.AuthorizeProfileInsert(admin, row))
	require.NoError(t, e.AuthorizeProfileUpdate(admin, row, row))
	require.NoError(t, e.AuthorizeProfileDelete(admin, row))

	for _, c := range []Caller{coLeader, employee} {
		assert.ErrorIs(t, e.AuthorizeProfileInsert(c, row), ErrDenied)
		assert.ErrorIs(t, e.AuthorizeProfileUpdate(c, row, row), ErrDenied)
		assert.ErrorIs(t, e.AuthorizeProfileDelete(c, row), ErrDenied)
	}
}

// Co-leaders are operationally powerful but not account-owning: even another
// co-leader's profile is out of reach, store-side, matching the advisory
// client gate.
func TestCoLeaderCannotMutateCoLeaderProfiles(t *testing.T) {
	e := NewEngine()
	peer := ProfileRow{ID: "colead-2"}

	assert.ErrorIs(t, e.AuthorizeProfileUpdate(coLeader, peer, peer), ErrDenied)
	assert.ErrorIs(t, e.AuthorizeProfileDelete(coLeader, peer), ErrDenied)
	assert.ErrorIs(t, e.AuthorizeProfileUpdate(coLeader, ProfileRow{ID: coLeader.ID}, ProfileRow{ID: coLeader.ID}), ErrDenied,
		"no self-service profile editing either")
}

func TestInquirySelectScoping(t *testing.T) {
	e := NewEngine()

	assigned := InquiryRow{AssignedTo: strPtr(employee.ID)}
	unassigned := InquiryRow{}
	foreign := InquiryRow{AssignedTo: strPtr(otherEmp.ID)}

	assert.True(t, e.CanSelectInquiry(employee, assigned))
	assert.False(t, e.CanSelectInquiry(employee, unassigned))
	assert.False(t, e.CanSelectInquiry(employee, foreign))

	for _, c := range []Caller{admin, coLeader} {
		assert.True(t, e.CanSelectInquiry(c, assigned))
		assert.True(t, e.CanSelectInquiry(c, unassigned))
		assert.True(t, e.CanSelectInquiry(c, foreign))
	}
}

func TestInquiryInsertRequiresLeadership(t *testing.T) {
	e := NewEngine()
	row := InquiryRow{}

	require.NoError(t, e.AuthorizeInquiryInsert(admin, row))
	require.NoError(t, e.AuthorizeInquiryInsert(coLeader, row))
	assert.ErrorIs(t, e.AuthorizeInquiryInsert(employee, row), ErrDenied)
}

func TestEmployeeUpdateLimitedToAssignedRows(t *testing.T) {
	e := NewEngine()

	own := InquiryRow{AssignedTo: strPtr(employee.ID)}
	foreign := InquiryRow{AssignedTo: strPtr(otherEmp.ID)}

	require.NoError(t, e.AuthorizeInquiryUpdate(employee, own, own))
	assert.ErrorIs(t, e.AuthorizeInquiryUpdate(employee, foreign, foreign), ErrDenied,
		"denied regardless of field changed")
	assert.ErrorIs(t, e.AuthorizeInquiryUpdate(employee, InquiryRow{}, InquiryRow{}), ErrDenied)
}

func TestEmployeeCannotReassignAwayFromSelf(t *testing.T) {
	e := NewEngine()

	old := InquiryRow{AssignedTo: strPtr(employee.ID)}

	assert.ErrorIs(t, e.AuthorizeInquiryUpdate(employee, old, InquiryRow{AssignedTo: strPtr(otherEmp.ID)}), ErrDenied)
	assert.ErrorIs(t, e.AuthorizeInquiryUpdate(employee, old, InquiryRow{AssignedTo: nil}), ErrDenied)

	// Leadership may reassign freely, including taking rows off an employee.
	require.NoError(t, e.AuthorizeInquiryUpdate(coLeader, old, InquiryRow{AssignedTo: strPtr(otherEmp.ID)}))
	require.NoError(t, e.AuthorizeInquiryUpdate(admin, old, InquiryRow{}))
}

func TestInquiryDeleteIsAdminOnly(t *testing.T) {
	e := NewEngine()
	own := InquiryRow{AssignedTo: strPtr(employee.ID)}

	require.NoError(t, e.AuthorizeInquiryDelete(admin, own))
	assert.ErrorIs(t, e.AuthorizeInquiryDelete(coLeader, own), ErrDenied)
	assert.ErrorIs(t, e.AuthorizeInquiryDelete(employee, own), ErrDenied,
		"assignment grants no delete right")
}

func TestFollowUpVisibilityFollowsParent(t *testing.T) {
	e := NewEngine()

	onOwn := FollowUpRow{CreatedBy: strPtr(employee.ID), Parent: InquiryRow{AssignedTo: strPtr(employee.ID)}}
	onForeign := FollowUpRow{CreatedBy: strPtr(employee.ID), Parent: InquiryRow{AssignedTo: strPtr(otherEmp.ID)}}

	assert.True(t, e.CanSelectFollowUp(employee, onOwn))
	assert.False(t, e.CanSelectFollowUp(employee, onForeign),
		"authoring a follow-up does not outlive losing the parent inquiry")
	assert.True(t, e.CanSelectFollowUp(admin, onForeign))
	assert.True(t, e.CanSelectFollowUp(coLeader, onForeign))
}

func TestFollowUpInsertRequiresParentVisibility(t *testing.T) {
	e := NewEngine()

	visible := FollowUpRow{CreatedBy: strPtr(employee.ID), Parent: InquiryRow{AssignedTo: strPtr(employee.ID)}}
	hidden := FollowUpRow{CreatedBy: strPtr(employee.ID), Parent: InquiryRow{AssignedTo: strPtr(otherEmp.ID)}}

	require.NoError(t, e.AuthorizeFollowUpInsert(employee, visible))
	assert.ErrorIs(t, e.AuthorizeFollowUpInsert(employee, hidden), ErrDenied)
	require.NoError(t, e.AuthorizeFollowUpInsert(coLeader, hidden))
	require.NoError(t, e.AuthorizeFollowUpInsert(admin, hidden))
}

func TestFollowUpUpdateIsCreatorOnlyEvenForAdmins(t *testing.T) {
	e := NewEngine()

	row := FollowUpRow{CreatedBy: strPtr(employee.ID), Parent: InquiryRow{AssignedTo: strPtr(employee.ID)}}

	require.NoError(t, e.AuthorizeFollowUpUpdate(employee, row, row))
	assert.ErrorIs(t, e.AuthorizeFollowUpUpdate(admin, row, row), ErrDenied,
		"no admin override on follow-up edits")
	assert.ErrorIs(t, e.AuthorizeFollowUpUpdate(coLeader, row, row), ErrDenied)
	assert.ErrorIs(t, e.AuthorizeFollowUpUpdate(otherEmp, row, row), ErrDenied)

	orphaned := FollowUpRow{Parent: InquiryRow{AssignedTo: strPtr(employee.ID)}}
	assert.ErrorIs(t, e.AuthorizeFollowUpUpdate(employee, orphaned, orphaned), ErrDenied,
		"rows whose creator was deleted become read-only")
}

func TestFollowUpDeleteDeniedForAllRoles(t *testing.T) {
	e := NewEngine()
	row := FollowUpRow{CreatedBy: strPtr(admin.ID), Parent: InquiryRow{}}

	for _, c := range []Caller{admin, coLeader, employee} {
		assert.ErrorIs(t, e.AuthorizeFollowUpDelete(c, row), ErrDenied)
	}
}

func TestUnauthenticatedCallerIsDeniedEverything(t *testing.T) {
	e := NewEngine()

	assert.False(t, e.CanSelectProfile(anon, ProfileRow{ID: ""}),
		"zero caller must not match a zero row id")
	assert.False(t, e.CanSelectInquiry(anon, InquiryRow{}))
	assert.False(t, e.CanSelectFollowUp(anon, FollowUpRow{}))
	assert.ErrorIs(t, e.AuthorizeInquiryInsert(anon, InquiryRow{}), ErrDenied)
	assert.ErrorIs(t, e.AuthorizeProfileUpdate(anon, ProfileRow{}, ProfileRow{}), ErrDenied)
	assert.ErrorIs(t, e.AuthorizeFollowUpInsert(anon, FollowUpRow{}), ErrDenied)
}

func TestUnknownRoleFallsThroughToDeny(t *testing.T) {
	e := NewEngine()
	ghost := Caller{ID: "ghost-1", Role: domain.Role("superuser")}

	assert.False(t, e.CanSelectInquiry(ghost, InquiryRow{AssignedTo: strPtr(ghost.ID)}))
	assert.ErrorIs(t, e.AuthorizeInquiryInsert(ghost, InquiryRow{}), ErrDenied)
	assert.ErrorIs(t, e.AuthorizeProfileDelete(ghost, ProfileRow{ID: "x"}), ErrDenied)
}

// Mirrors the end-to-end handoff scenario: admin provisions an employee,
// creates and assigns an inquiry, the employee works it, leadership observes
// the result.
func TestAssignmentHandoffScenario(t *testing.T) {
	e := NewEngine()

	require.NoError(t, e.AuthorizeProfileInsert(admin, ProfileRow{ID: employee.ID}))
	require.NoError(t, e.AuthorizeInquiryInsert(admin, InquiryRow{}))

	unassigned := InquiryRow{}
	assigned := InquiryRow{AssignedTo: strPtr(employee.ID)}

	// Admin assigns the inquiry to the employee.
	require.NoError(t, e.AuthorizeInquiryUpdate(admin, unassigned, assigned))

	// Now, and only now, the employee sees and may update it.
	assert.True(t, e.CanSelectInquiry(employee, assigned))
	require.NoError(t, e.AuthorizeInquiryUpdate(employee, assigned, assigned))

	// Co-leader reads the employee's work.
	assert.True(t, e.CanSelectInquiry(coLeader, assigned))

	// The employee still cannot delete it.
	assert.ErrorIs(t, e.AuthorizeInquiryDelete(employee, assigned), ErrDenied)
}
