package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const uniqueViolation = "23505"

type execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type registrarPG struct {
	db execer
}

// NewRegistrarPG returns a Registrar that stores employee accounts in the
// employee_account table. Passwords are stored as bcrypt hashes.
func NewRegistrarPG(pool *pgxpool.Pool) Registrar {
	return &registrarPG{db: pool}
}

func (r *registrarPG) SignUp(ctx context.Context, email, password string, p Profile) (*Registration, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.New()
	email = strings.ToLower(strings.TrimSpace(email))
	_, err = r.db.Exec(ctx, `
		INSERT INTO employee_account (id, email, password_hash, name, employee_type, birthdate, employee_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, email, string(hash), p.Name, string(p.Type), p.Birthdate, p.EmployeeID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert employee_account: %w", err)
	}
	return &Registration{UserID: id.String(), Email: email}, nil
}

// SignOut is a no-op: direct database access carries no session.
func (r *registrarPG) SignOut(ctx context.Context) error {
	return nil
}
