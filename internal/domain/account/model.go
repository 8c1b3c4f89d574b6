package account

import (
	"errors"
	"strings"
)

var (
	// ErrFieldsRequired is returned when any signup field is blank.
	ErrFieldsRequired = errors.New("all fields are required")
	// ErrInvalidEmployeeType is returned for a type outside EmployeeTypes.
	ErrInvalidEmployeeType = errors.New("employee type must be one of admin, nurse, doctor, staff")
	// ErrEmailTaken is returned by registrars that detect duplicate accounts.
	ErrEmailTaken = errors.New("an account with this email already exists")
)

// EmployeeType is the staff category chosen at signup.
type EmployeeType string

const (
	EmployeeAdmin  EmployeeType = "admin"
	EmployeeNurse  EmployeeType = "nurse"
	EmployeeDoctor EmployeeType = "doctor"
	EmployeeStaff  EmployeeType = "staff"
)

// EmployeeTypes lists the selectable types in display order.
var EmployeeTypes = []EmployeeType{EmployeeAdmin, EmployeeNurse, EmployeeDoctor, EmployeeStaff}

// Valid reports whether t is one of EmployeeTypes.
func (t EmployeeType) Valid() bool {
	for _, v := range EmployeeTypes {
		if t == v {
			return true
		}
	}
	return false
}

// SignupForm is the employee registration payload.
type SignupForm struct {
	Name       string       `json:"name" form:"employeeName"`
	Email      string       `json:"email" form:"email"`
	Type       EmployeeType `json:"type" form:"employeeType"`
	Birthdate  string       `json:"birthdate" form:"employeeBirthdate"`
	EmployeeID string       `json:"employee_id" form:"employeeID"`
	Password   string       `json:"password" form:"password"`
}

// Validate checks that every field is present and the type is known.
// Formats are not checked.
func (f SignupForm) Validate() error {
	for _, v := range []string{f.Name, f.Email, string(f.Type), f.Birthdate, f.EmployeeID, f.Password} {
		if strings.TrimSpace(v) == "" {
			return ErrFieldsRequired
		}
	}
	if !f.Type.Valid() {
		return ErrInvalidEmployeeType
	}
	return nil
}

// Profile returns the metadata attached to the new account.
func (f SignupForm) Profile() Profile {
	return Profile{
		Name:       f.Name,
		Type:       f.Type,
		Birthdate:  f.Birthdate,
		EmployeeID: f.EmployeeID,
	}
}

// Profile is the employee metadata stored with an account. EmployeeID is the
// organisation's staff number, unrelated to record ids.
type Profile struct {
	Name       string       `json:"name"`
	Type       EmployeeType `json:"type"`
	Birthdate  string       `json:"birthdate"`
	EmployeeID string       `json:"id"`
}

// Registration is the outcome of a successful signup.
type Registration struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	// SessionStarted is true when the backend signed the user in directly
	// instead of waiting for email confirmation.
	SessionStarted bool `json:"session_started"`
}
