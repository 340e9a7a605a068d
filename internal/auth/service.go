// Package auth turns credentials into resolved sessions and guards the
// HTTP surface with bearer tokens.
package auth

import (
	"errors"
	"strings"

	"srms/internal/records"
	"srms/internal/registry"
)

// Roles a session can carry.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// ErrInvalidCredentials is the explicit no-session result; authentication
// failure is never a fault.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the resolved identity bound to one authenticated interaction.
// Exactly one of Account or Student is set, matching the role.
type Session struct {
	Role    string            `json:"role"`
	Account *registry.Account `json:"account,omitempty"`
	Student *records.Student  `json:"student,omitempty"`
}

// Subject is the identifier the session authenticated as: the account
// username for privileged roles, the roll number for students.
func (s *Session) Subject() string {
	switch {
	case s.Account != nil:
		return s.Account.Username
	case s.Student != nil:
		return strings.TrimSpace(s.Student.RollNo)
	}
	return ""
}

// Service authenticates against the fixed registry first, then the
// students collection.
type Service struct {
	reg *registry.Registry
}

// NewService creates an authentication service over the registry.
func NewService(reg *registry.Registry) *Service {
	return &Service{reg: reg}
}

// Authenticate resolves a (username, password) pair into a session.
//
// Privileged accounts are checked first, in registry order, with exact
// case-sensitive matches on both fields. A privileged username with a wrong
// password fails outright; it never falls through to student resolution,
// even when username and password coincide. Students authenticate by
// presenting their roll number as both username and password; the rule is
// intentional, not a password scheme waiting to be fixed.
//
// The service is read-only: installing the session somewhere is the
// caller's job.
func (s *Service) Authenticate(username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	for _, a := range s.reg.Accounts() {
		if a.Username == username && a.Password == password {
			acct := a
			return &Session{Role: a.Role, Account: &acct}, nil
		}
	}
	if s.reg.IsPrivileged(username) {
		return nil, ErrInvalidCredentials
	}
	if username != "" && username == password {
		if student := s.reg.ResolveStudent(username); student != nil {
			return &Session{Role: RoleStudent, Student: student}, nil
		}
	}
	return nil, ErrInvalidCredentials
}
