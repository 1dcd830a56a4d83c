package employee

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type Employee struct {
	ID                string
	EmployeeCode      string
	IdentityUID       string
	Role              Role
	FirstName         string
	LastName          string
	Email             string
	Phone             *string
	Address           *string
	DateOfBirth       *time.Time
	JobTitle          *string
	Department        *string
	DateOfJoining     *time.Time
	ProfilePictureURL *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// Changes lists the columns to overwrite on update. Nil fields are left untouched.
type Changes struct {
	FirstName         *string
	LastName          *string
	Email             *string
	Phone             *string
	Address           *string
	JobTitle          *string
	Department        *string
	Role              *Role
	ProfilePictureURL *string
}

func (c Changes) IsEmpty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Email == nil && c.Phone == nil &&
		c.Address == nil && c.JobTitle == nil && c.Department == nil && c.Role == nil &&
		c.ProfilePictureURL == nil
}

// FormatEmployeeCode builds a code such as EMP-2026-0042.
func FormatEmployeeCode(year int, sequence int) string {
	return fmt.Sprintf("EMP-%04d-%04d", year, sequence)
}
