package account

import "context"

// Registrar creates accounts and ends sessions on the auth backend.
type Registrar interface {
	SignUp(ctx context.Context, email, password string, p Profile) (*Registration, error)
	SignOut(ctx context.Context) error
}
