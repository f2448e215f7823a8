package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestPGDirectory_Integration connects to a real PostgreSQL via DATABASE_URL
// and verifies account creation, authentication and duplicate detection.
func TestPGDirectory_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is empty; set it to a live PostgreSQL to run integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	defer pool.Close()

	var exists bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'accounts')`).Scan(&exists); err != nil || !exists {
		t.Skip("database schema missing; apply migrations/0001_init.sql first")
	}

	dir := NewPGDirectory(pool)
	email := fmt.Sprintf("psy+%d@example.com", time.Now().UnixNano())

	created, err := dir.CreateAccount(ctx, email, "s3nh4forte")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if created.ID == "" || created.Email != email {
		t.Fatalf("unexpected created identity: %+v", created)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM accounts WHERE id = $1`, created.ID)
	})

	authed, err := dir.Authenticate(ctx, email, "s3nh4forte")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != created.ID {
		t.Fatalf("expected identity %q got %q", created.ID, authed.ID)
	}

	if _, err := dir.Authenticate(ctx, email, "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := dir.CreateAccount(ctx, email, "another-pass"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if _, err := dir.CreateAccount(ctx, fmt.Sprintf("weak+%d@example.com", time.Now().UnixNano()), "abc"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}
