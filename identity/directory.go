package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Directory is the account backend shared by every client context. A client
// holds session state; the directory holds the accounts themselves.
type Directory interface {
	// Authenticate verifies the credential and returns the matching identity.
	// Returns ErrInvalidCredentials for an unknown email or wrong password.
	Authenticate(ctx context.Context, email, password string) (Identity, error)
	// CreateAccount registers a brand-new identity. Returns ErrDuplicateEmail
	// if the email is taken and ErrWeakPassword if the password is too short.
	CreateAccount(ctx context.Context, email, password string) (Identity, error)
}

// MemoryDirectory is an in-memory Directory for tests and local development.
type MemoryDirectory struct {
	mu          sync.Mutex
	accounts    map[string]memoryAccount // keyed by lowercased email
	idGenerator func() string
}

type memoryAccount struct {
	id           string
	email        string
	passwordHash []byte
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		accounts:    make(map[string]memoryAccount),
		idGenerator: func() string { return uuid.NewString() },
	}
}

// WithIDGenerator overrides account id generation, mostly for tests.
func (d *MemoryDirectory) WithIDGenerator(gen func() string) *MemoryDirectory {
	d.idGenerator = gen
	return d
}

// Authenticate implements Directory.
func (d *MemoryDirectory) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	d.mu.Lock()
	acc, ok := d.accounts[strings.ToLower(email)]
	d.mu.Unlock()
	if !ok {
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{ID: acc.id, Email: acc.email}, nil
}

// CreateAccount implements Directory.
func (d *MemoryDirectory) CreateAccount(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Identity{}, ErrInvalidCredentials
	}
	if len(password) < MinPasswordLength {
		return Identity{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := d.accounts[key]; exists {
		return Identity{}, ErrDuplicateEmail
	}

	acc := memoryAccount{
		id:           d.idGenerator(),
		email:        email,
		passwordHash: hash,
	}
	d.accounts[key] = acc
	return Identity{ID: acc.id, Email: acc.email}, nil
}
