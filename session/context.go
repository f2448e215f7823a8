package session

import (
	"context"
	"sync"

	"psiconnect/identity"
)

// Snapshot is the session state consumers branch on. Role must not be
// consulted until Ready is true; a not-ready snapshot means "loading", never
// "unauthenticated".
type Snapshot struct {
	Identity *identity.Identity
	Role     Role
	Ready    bool
}

// Context combines the signed-in identity with its derived role. It is
// constructed once at process start and passed to consumers explicitly; the
// identity-change subscription is the only writer of identity, role and
// readiness, so an explicit SignIn call never races the provider
// notification it triggers.
type Context struct {
	client      *identity.Client
	resolver    *Resolver
	mu          sync.Mutex
	current     *identity.Identity
	role        Role
	ready       bool
	generation  uint64
	unsubscribe func()
}

// NewContext builds the session context and subscribes it to the client for
// the rest of the process lifetime. With no identity signed in, the session
// is immediately ready and anonymous.
func NewContext(client *identity.Client, resolver *Resolver) *Context {
	c := &Context{
		client:   client,
		resolver: resolver,
		role:     RoleAnonymous,
	}
	c.unsubscribe = client.Subscribe(c.onIdentityChanged)
	return c
}

// SignIn delegates to the identity client. It deliberately sets no session
// state itself; the subscription callback does that when the client reports
// the transition.
func (c *Context) SignIn(ctx context.Context, email, password string) error {
	_, err := c.client.SignIn(ctx, email, password)
	return err
}

// SignOut clears the session. The reset to anonymous happens synchronously
// inside the subscription callback before this returns; a role lookup still
// in flight for the outgoing identity is discarded when it lands.
func (c *Context) SignOut() {
	c.client.SignOut()
}

// Snapshot returns the current session state.
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{Role: c.role, Ready: c.ready}
	if c.current != nil {
		cp := *c.current
		snap.Identity = &cp
	}
	return snap
}

// Close detaches the subscription. Only used at process exit.
func (c *Context) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// onIdentityChanged is the single writer of session state. Each invocation
// advances the generation counter so that only the resolution for the latest
// identity is ever applied; a slow lookup for a previous identity cannot
// overwrite newer state.
func (c *Context) onIdentityChanged(ident *identity.Identity) {
	c.mu.Lock()
	c.generation++
	gen := c.generation

	if ident == nil {
		c.current = nil
		c.role = RoleAnonymous
		c.ready = true
		c.mu.Unlock()
		return
	}

	cp := *ident
	c.current = &cp
	c.role = RoleUnresolved
	c.ready = false
	c.mu.Unlock()

	go func() {
		role := c.resolver.Resolve(context.Background(), cp)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation != gen {
			return
		}
		c.role = role
		c.ready = true
	}()
}
