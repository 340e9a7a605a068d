// Package registry holds the portal's fixed privileged accounts and the
// rule resolving a student identity from the record store.
package registry

import (
	"strings"

	"srms/internal/records"
	"srms/internal/store"
)

// Account is one privileged login. Accounts are defined at construction
// and never mutated at runtime; passwords are plaintext by design of the
// system being replaced.
type Account struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Role     string `json:"role"`
	Name     string `json:"name,omitempty"`
	Dept     string `json:"dept,omitempty"`
}

// Registry exposes the fixed account list and student resolution.
type Registry struct {
	accounts []Account
	store    *store.Store
}

// New creates a registry over the given accounts, in order. First match
// wins wherever the registry scans.
func New(st *store.Store, accounts []Account) *Registry {
	return &Registry{accounts: accounts, store: st}
}

// DefaultAccounts returns the portal's stock administrator and teachers.
func DefaultAccounts() []Account {
	return []Account{
		{Username: "admin", Password: "admin123", Role: "admin", Name: "Administrator"},
		{Username: "teacher1", Password: "t123", Role: "teacher", Name: "Teacher One"},
		{Username: "teacher2", Password: "t123", Role: "teacher", Name: "Teacher Two"},
	}
}

// Accounts returns the fixed account sequence.
func (r *Registry) Accounts() []Account {
	return r.accounts
}

// IsPrivileged reports whether username belongs to a fixed account.
func (r *Registry) IsPrivileged(username string) bool {
	for _, a := range r.accounts {
		if a.Username == username {
			return true
		}
	}
	return false
}

// ResolveStudent returns the first student whose trimmed roll number equals
// identifier exactly, or nil when none matches. Duplicate roll numbers are
// a data-quality issue the registry does not detect; load order decides.
func (r *Registry) ResolveStudent(identifier string) *records.Student {
	var students []records.Student
	r.store.Load(store.Students, &students)
	for i := range students {
		if strings.TrimSpace(students[i].RollNo) == identifier {
			return &students[i]
		}
	}
	return nil
}
