package account

import (
	"context"

	"github.com/rs/zerolog"
)

// Service provides the signup and sign-out flows.
type Service struct {
	registrar Registrar
	logger    zerolog.Logger
}

// NewService creates a new account service.
func NewService(r Registrar, logger zerolog.Logger) *Service {
	return &Service{registrar: r, logger: logger}
}

// SignUp validates the form and registers the account. Validation failures
// are returned without contacting the backend.
func (s *Service) SignUp(ctx context.Context, f SignupForm) (*Registration, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	reg, err := s.registrar.SignUp(ctx, f.Email, f.Password, f.Profile())
	if err != nil {
		s.logger.Error().Err(err).Str("op", "signup").Str("employee_type", string(f.Type)).Msg("remote call failed")
		return nil, err
	}
	s.logger.Info().Str("user_id", reg.UserID).Bool("session_started", reg.SessionStarted).Msg("account registered")
	return reg, nil
}

// SignOut ends the current session.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.registrar.SignOut(ctx); err != nil {
		s.logger.Error().Err(err).Str("op", "signout").Msg("remote call failed")
		return err
	}
	s.logger.Info().Msg("signed out")
	return nil
}
