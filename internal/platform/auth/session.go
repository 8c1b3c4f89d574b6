package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session describes who an access token belongs to.
type Session struct {
	UserID    string
	Email     string
	Name      string
	Type      string
	ExpiresAt time.Time
}

// Label is a one-line description for status bars.
func (s Session) Label() string {
	who := s.Email
	if s.Name != "" {
		who = s.Name
	}
	if who == "" {
		who = s.UserID
	}
	if s.Type != "" {
		return fmt.Sprintf("%s (%s)", who, s.Type)
	}
	return who
}

// Expired reports whether the token carried an expiry that has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// DescribeToken decodes the claims of an access token without verifying its
// signature. The result is for display only and must not be used for access
// decisions.
func DescribeToken(token string) (Session, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("decode access token: %w", err)
	}
	s := Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.UserMetadata.Name,
		Type:   claims.UserMetadata.Type,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
