package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsAnonKeyWhenSignedOut(t *testing.T) {
	var gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, AnonKey: "anon-key"})
	err := Check(c.R(context.Background()).Get("/rest/v1/x"))
	require.NoError(t, err)
	assert.Equal(t, "anon-key", gotKey)
	assert.Equal(t, "Bearer anon-key", gotAuth)
}

func TestClient_SendsAccessToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/", AnonKey: "anon-key", AccessToken: "session-token"})
	require.NoError(t, Check(c.R(context.Background()).Get("/rest/v1/x")))
	assert.Equal(t, "Bearer session-token", gotAuth)

	c.SetAccessToken("")
	require.NoError(t, Check(c.R(context.Background()).Get("/rest/v1/x")))
	assert.Equal(t, "Bearer anon-key", gotAuth)
	assert.Empty(t, c.AccessToken())
}

func TestCheck_TableAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":"PGRST204","message":"Could not find the 'foo' column","details":null,"hint":"check the schema"}`)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, AnonKey: "k"})
	err := Check(c.R(context.Background()).Get("/rest/v1/x"))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "PGRST204", apiErr.Code)
	assert.Equal(t, "Could not find the 'foo' column", apiErr.Message)
	assert.Equal(t, "check the schema", apiErr.Hint)
	assert.Empty(t, apiErr.Details)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestCheck_AuthAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, AnonKey: "k"})
	err := Check(c.R(context.Background()).Post("/auth/v1/signup"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "user_already_exists", apiErr.Code)
	assert.Equal(t, "User already registered", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "422")
}

func TestCheck_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream down")
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, AnonKey: "k"})
	err := Check(c.R(context.Background()).Get("/rest/v1/x"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestCheck_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url, AnonKey: "k"})
	err := Check(c.R(context.Background()).Get("/rest/v1/x"))
	require.Error(t, err)
	assert.Zero(t, StatusOf(err))
}

func TestStatusOf_PlainError(t *testing.T) {
	assert.Zero(t, StatusOf(errors.New("boom")))
	assert.Equal(t, 404, StatusOf(fmt.Errorf("wrapped: %w", &APIError{Status: 404})))
}
