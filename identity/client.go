package identity

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClientClosed signals use of a client context after Close.
var ErrClientClosed = errors.New("identity: client closed")

// Config carries the shared settings every client context is built from.
// Multiple clients may share one Config; each keeps its own session state.
type Config struct {
	Directory   Directory
	TokenSecret string
	TokenTTL    time.Duration
}

// Client is a session context over a Directory. The application holds one
// primary client for the signed-in user; workflows that must mint identities
// without displacing that session acquire a secondary client from the same
// Config and Close it when done.
type Client struct {
	dir       Directory
	secret    []byte
	tokenTTL  time.Duration
	mu        sync.Mutex
	current   *Identity
	token     string
	closed    bool
	nextSubID int
	subs      map[int]func(*Identity)
}

// NewClient acquires a fresh, signed-out client context.
func NewClient(cfg Config) *Client {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Client{
		dir:      cfg.Directory,
		secret:   []byte(cfg.TokenSecret),
		tokenTTL: ttl,
		subs:     make(map[int]func(*Identity)),
	}
}

// SignIn authenticates the credential and makes the identity this client's
// current session. Session state is updated before subscribers are notified.
func (c *Client) SignIn(ctx context.Context, email, password string) (Identity, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Identity{}, ErrClientClosed
	}
	c.mu.Unlock()

	ident, err := c.dir.Authenticate(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}

	token, err := c.mintToken(ident)
	if err != nil {
		return Identity{}, err
	}

	c.setCurrent(&ident, token)
	return ident, nil
}

// SignOut clears the session synchronously and notifies subscribers with nil.
func (c *Client) SignOut() {
	c.setCurrent(nil, "")
}

// CreateIdentity registers a brand-new account and signs this client in as
// it, mirroring the provider's create-is-also-sign-in behaviour. Callers that
// must not have their session displaced use a secondary client.
func (c *Client) CreateIdentity(ctx context.Context, email, password string) (Identity, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Identity{}, ErrClientClosed
	}
	c.mu.Unlock()

	ident, err := c.dir.CreateAccount(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}

	token, err := c.mintToken(ident)
	if err != nil {
		return Identity{}, err
	}

	c.setCurrent(&ident, token)
	return ident, nil
}

// Current returns the signed-in identity, if any.
func (c *Client) Current() (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Identity{}, false
	}
	return *c.current, true
}

// Token returns the access token minted at the last sign-in, or empty.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Subscribe registers fn for session transitions. fn is invoked immediately
// with the current identity (nil when signed out), then once per transition.
// The returned function unsubscribes.
func (c *Client) Subscribe(fn func(*Identity)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	var snapshot *Identity
	if c.current != nil {
		cp := *c.current
		snapshot = &cp
	}
	c.mu.Unlock()

	fn(snapshot)

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Close releases the client context: the session is dropped and subscribers
// are detached. Other clients built from the same Config are unaffected.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.current = nil
	c.token = ""
	c.subs = make(map[int]func(*Identity))
	c.mu.Unlock()
	return nil
}

func (c *Client) setCurrent(ident *Identity, token string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.current = ident
	c.token = token

	fns := make([]func(*Identity), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	var snapshot *Identity
	if ident != nil {
		cp := *ident
		snapshot = &cp
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
