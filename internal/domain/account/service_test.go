package account

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// =========== Mock Registrar ===========

type mockRegistrar struct {
	signUps    []Profile
	signOuts   int
	signUpErr  error
	signOutErr error
	lastEmail  string
	lastPasswd string
}

func (m *mockRegistrar) SignUp(_ context.Context, email, password string, p Profile) (*Registration, error) {
	if m.signUpErr != nil {
		return nil, m.signUpErr
	}
	m.signUps = append(m.signUps, p)
	m.lastEmail = email
	m.lastPasswd = password
	return &Registration{UserID: "user-1", Email: email}, nil
}

func (m *mockRegistrar) SignOut(_ context.Context) error {
	if m.signOutErr != nil {
		return m.signOutErr
	}
	m.signOuts++
	return nil
}

func newTestService() (*Service, *mockRegistrar) {
	reg := &mockRegistrar{}
	return NewService(reg, zerolog.Nop()), reg
}

// =========== Tests ===========

func TestSignUp_Success(t *testing.T) {
	svc, reg := newTestService()
	out, err := svc.SignUp(context.Background(), validForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", out.UserID)
	}
	if len(reg.signUps) != 1 {
		t.Fatalf("expected 1 signup, got %d", len(reg.signUps))
	}
	if reg.lastEmail != "ada@example.org" || reg.lastPasswd != "s3cret!" {
		t.Errorf("credentials not forwarded: %s / %s", reg.lastEmail, reg.lastPasswd)
	}
	if reg.signUps[0].EmployeeID != "EMP-0042" {
		t.Errorf("profile not forwarded: %+v", reg.signUps[0])
	}
}

func TestSignUp_ValidationSkipsBackend(t *testing.T) {
	svc, reg := newTestService()
	f := validForm()
	f.Password = ""
	if _, err := svc.SignUp(context.Background(), f); !errors.Is(err, ErrFieldsRequired) {
		t.Fatalf("expected ErrFieldsRequired, got %v", err)
	}
	if len(reg.signUps) != 0 {
		t.Error("backend must not be called for an invalid form")
	}
}

func TestSignUp_BackendFailureReturned(t *testing.T) {
	svc, reg := newTestService()
	reg.signUpErr = errors.New("network unreachable")
	if _, err := svc.SignUp(context.Background(), validForm()); err == nil {
		t.Fatal("expected backend error to surface")
	}
}

func TestSignOut(t *testing.T) {
	svc, reg := newTestService()
	if err := svc.SignOut(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.signOuts != 1 {
		t.Errorf("expected 1 sign out, got %d", reg.signOuts)
	}
}

func TestSignOut_Failure(t *testing.T) {
	svc, reg := newTestService()
	reg.signOutErr = errors.New("timeout")
	if err := svc.SignOut(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestMemoryRegistrar(t *testing.T) {
	m := NewMemoryRegistrar()
	ctx := context.Background()
	reg, err := m.SignUp(ctx, "Ada@Example.org", "pw", Profile{Name: "Ada"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reg.SessionStarted || !m.SignedIn() {
		t.Error("expected a session after signup")
	}
	if _, err := m.SignUp(ctx, "ada@example.org", "pw", Profile{}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
	if err := m.SignOut(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SignedIn() {
		t.Error("expected no session after sign out")
	}
}
