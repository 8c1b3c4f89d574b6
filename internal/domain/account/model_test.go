package account

import (
	"errors"
	"testing"
)

func validForm() SignupForm {
	return SignupForm{
		Name:       "Ada Grace Lovelace",
		Email:      "ada@example.org",
		Type:       EmployeeNurse,
		Birthdate:  "1990-12-10",
		EmployeeID: "EMP-0042",
		Password:   "s3cret!",
	}
}

func TestSignupForm_Valid(t *testing.T) {
	if err := validForm().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSignupForm_MissingFields(t *testing.T) {
	clear := map[string]func(*SignupForm){
		"name":        func(f *SignupForm) { f.Name = "" },
		"email":       func(f *SignupForm) { f.Email = "" },
		"type":        func(f *SignupForm) { f.Type = "" },
		"birthdate":   func(f *SignupForm) { f.Birthdate = "" },
		"employee_id": func(f *SignupForm) { f.EmployeeID = "" },
		"password":    func(f *SignupForm) { f.Password = "   " },
	}
	for name, fn := range clear {
		t.Run(name, func(t *testing.T) {
			f := validForm()
			fn(&f)
			if err := f.Validate(); !errors.Is(err, ErrFieldsRequired) {
				t.Errorf("expected ErrFieldsRequired, got %v", err)
			}
		})
	}
}

func TestSignupForm_InvalidType(t *testing.T) {
	f := validForm()
	f.Type = "surgeon"
	if err := f.Validate(); !errors.Is(err, ErrInvalidEmployeeType) {
		t.Errorf("expected ErrInvalidEmployeeType, got %v", err)
	}
}

func TestSignupForm_FormatsNotChecked(t *testing.T) {
	f := validForm()
	f.Email = "not-an-email"
	f.Birthdate = "sometime in 1990"
	if err := f.Validate(); err != nil {
		t.Errorf("expected formats to pass through, got %v", err)
	}
}

func TestSignupForm_Profile(t *testing.T) {
	p := validForm().Profile()
	if p.Name != "Ada Grace Lovelace" || p.Type != EmployeeNurse || p.Birthdate != "1990-12-10" || p.EmployeeID != "EMP-0042" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestEmployeeType_Valid(t *testing.T) {
	for _, typ := range EmployeeTypes {
		if !typ.Valid() {
			t.Errorf("expected %s to be valid", typ)
		}
	}
	if EmployeeType("Admin").Valid() {
		t.Error("types are case sensitive")
	}
}
