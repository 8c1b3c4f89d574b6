package account

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/recordspanel/internal/platform/remote"
)

func TestRegistrarHosted_SignUpWithSession(t *testing.T) {
	var got signUpRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/signup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-1","token_type":"bearer","user":{"id":"u-1","email":"ada@example.org"}}`)
	}))
	defer srv.Close()

	client := remote.New(remote.Config{BaseURL: srv.URL, AnonKey: "anon"})
	reg, err := NewRegistrarHosted(client).SignUp(context.Background(), "ada@example.org", "pw",
		Profile{Name: "Ada", Type: EmployeeAdmin, Birthdate: "1990-12-10", EmployeeID: "E-1"})
	require.NoError(t, err)

	assert.Equal(t, "u-1", reg.UserID)
	assert.True(t, reg.SessionStarted)
	assert.Equal(t, "tok-1", client.AccessToken())
	assert.Equal(t, "pw", got.Password)
	assert.Equal(t, Profile{Name: "Ada", Type: EmployeeAdmin, Birthdate: "1990-12-10", EmployeeID: "E-1"}, got.Data)
}

func TestRegistrarHosted_SignUpPendingConfirmation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"u-2","email":"bob@example.org","confirmation_sent_at":"2026-01-01T00:00:00Z"}`)
	}))
	defer srv.Close()

	client := remote.New(remote.Config{BaseURL: srv.URL, AnonKey: "anon"})
	reg, err := NewRegistrarHosted(client).SignUp(context.Background(), "bob@example.org", "pw", Profile{})
	require.NoError(t, err)
	assert.Equal(t, "u-2", reg.UserID)
	assert.False(t, reg.SessionStarted)
	assert.Empty(t, client.AccessToken())
}

func TestRegistrarHosted_SignUpError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`)
	}))
	defer srv.Close()

	client := remote.New(remote.Config{BaseURL: srv.URL, AnonKey: "anon"})
	_, err := NewRegistrarHosted(client).SignUp(context.Background(), "ada@example.org", "pw", Profile{})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, remote.StatusOf(err))
}

func TestRegistrarHosted_SignOut(t *testing.T) {
	calls := 0
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := remote.New(remote.Config{BaseURL: srv.URL, AnonKey: "anon", AccessToken: "tok-1"})
	r := NewRegistrarHosted(client)
	require.NoError(t, r.SignOut(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Bearer tok-1", auth)
	assert.Empty(t, client.AccessToken())

	// Without a session nothing is sent.
	require.NoError(t, r.SignOut(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestRegistrarHosted_SignOutFailureKeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := remote.New(remote.Config{BaseURL: srv.URL, AnonKey: "anon", AccessToken: "tok-1"})
	require.Error(t, NewRegistrarHosted(client).SignOut(context.Background()))
	assert.Equal(t, "tok-1", client.AccessToken())
}
