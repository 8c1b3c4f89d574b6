package account

import (
	"context"
	"fmt"

	"github.com/ehr/recordspanel/internal/platform/remote"
)

type registrarHosted struct {
	client *remote.Client
}

// NewRegistrarHosted returns a Registrar backed by the hosted auth API.
func NewRegistrarHosted(client *remote.Client) Registrar {
	return &registrarHosted{client: client}
}

type signUpRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Data     Profile `json:"data"`
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// signUpResponse is either a session (auto-confirm projects) or a bare user
// (projects requiring email confirmation).
type signUpResponse struct {
	AccessToken string    `json:"access_token"`
	User        *authUser `json:"user"`
	ID          string    `json:"id"`
	Email       string    `json:"email"`
}

func (r *registrarHosted) SignUp(ctx context.Context, email, password string, p Profile) (*Registration, error) {
	var out signUpResponse
	err := remote.Check(r.client.R(ctx).
		SetBody(signUpRequest{Email: email, Password: password, Data: p}).
		SetResult(&out).
		Post("/auth/v1/signup"))
	if err != nil {
		return nil, fmt.Errorf("sign up %s: %w", email, err)
	}

	reg := &Registration{UserID: out.ID, Email: out.Email}
	if out.User != nil {
		reg.UserID = out.User.ID
		reg.Email = out.User.Email
	}
	if out.AccessToken != "" {
		r.client.SetAccessToken(out.AccessToken)
		reg.SessionStarted = true
	}
	return reg, nil
}

func (r *registrarHosted) SignOut(ctx context.Context) error {
	if r.client.AccessToken() == "" {
		return nil
	}
	err := remote.Check(r.client.R(ctx).Post("/auth/v1/logout"))
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	r.client.SetAccessToken("")
	return nil
}
