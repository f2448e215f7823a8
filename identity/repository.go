package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// PGDirectory implements Directory backed by PostgreSQL.
type PGDirectory struct {
	pool *pgxpool.Pool
}

// NewPGDirectory creates a PostgreSQL-backed account directory.
func NewPGDirectory(pool *pgxpool.Pool) *PGDirectory {
	return &PGDirectory{pool: pool}
}

// Authenticate verifies the credential against the accounts table.
func (d *PGDirectory) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	const selectSQL = `
		SELECT id, email, password_hash
		FROM accounts
		WHERE lower(email) = lower($1)
	`

	var (
		ident Identity
		hash  string
	)
	err := d.pool.QueryRow(ctx, selectSQL, email).Scan(&ident.ID, &ident.Email, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("identity: authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return ident, nil
}

// CreateAccount inserts a new account with a hashed password.
func (d *PGDirectory) CreateAccount(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Identity{}, ErrInvalidCredentials
	}
	if len(password) < MinPasswordLength {
		return Identity{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, fmt.Errorf("identity: hash password: %w", err)
	}

	const insertSQL = `
		INSERT INTO accounts (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email
	`

	var ident Identity
	if err := d.pool.QueryRow(ctx, insertSQL, email, string(hash)).Scan(&ident.ID, &ident.Email); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Identity{}, ErrDuplicateEmail
		}
		return Identity{}, fmt.Errorf("identity: create account: %w", err)
	}

	return ident, nil
}
