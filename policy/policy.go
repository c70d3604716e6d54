// Package policy decides which roles may perform which actions.
// One static table, evaluated per request; no dispatch hierarchy.
package policy

type Role int

const (
	RoleAnonymous Role = iota
	RoleMember
	RoleStaff
)

type Action string

const (
	BookList   Action = "book:list"
	BookGet    Action = "book:get"
	BookCreate Action = "book:create"
	BookUpdate Action = "book:update"
	BookDelete Action = "book:delete"

	BorrowingList   Action = "borrowing:list"
	BorrowingGet    Action = "borrowing:get"
	BorrowingCreate Action = "borrowing:create"
	BorrowingReturn Action = "borrowing:return"
)

type decision int

const (
	deny decision = iota
	allow
	allowOwn // permitted only when the requester owns the record
)

var table = map[Action]map[Role]decision{
	BookList:   {RoleAnonymous: allow, RoleMember: allow, RoleStaff: allow},
	BookGet:    {RoleAnonymous: allow, RoleMember: allow, RoleStaff: allow},
	BookCreate: {RoleStaff: allow},
	BookUpdate: {RoleStaff: allow},
	BookDelete: {RoleStaff: allow},

	BorrowingList:   {RoleMember: allow, RoleStaff: allow},
	BorrowingCreate: {RoleMember: allow, RoleStaff: allow},
	BorrowingGet:    {RoleMember: allowOwn, RoleStaff: allow},
	BorrowingReturn: {RoleStaff: allow},
}

// Check reports whether role may perform action. owns tells whether the
// requester owns the record in question; it only matters for owner-scoped
// actions.
func Check(role Role, action Action, owns bool) bool {
	switch table[action][role] {
	case allow:
		return true
	case allowOwn:
		return owns
	default:
		return false
	}
}

// RoleOf maps an authenticated user's staff flag to a role.
func RoleOf(isStaff bool) Role {
	if isStaff {
		return RoleStaff
	}
	return RoleMember
}
