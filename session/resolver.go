package session

import (
	"context"
	"errors"
	"log"

	"psiconnect/docstore"
	"psiconnect/identity"
)

// InfraErrorPolicy names how the resolver handles infrastructure failures on
// authority reads. Naming the policy keeps the trade-off visible and
// reversible per deployment.
type InfraErrorPolicy int

const (
	// FailOpenToNextCheck treats an infrastructure failure like absence and
	// proceeds, favouring availability. A failing managers read can
	// therefore downgrade a manager to patient; the resolver logs each
	// occurrence so the masking is at least observable.
	FailOpenToNextCheck InfraErrorPolicy = iota
	// FailClosed stops resolution and reports RoleUnresolved instead of
	// guessing a weaker role.
	FailClosed
)

// Resolver derives a role for an authenticated identity by priority-ordered
// lookup across authority collections. It performs reads only.
type Resolver struct {
	docs   docstore.Client
	policy InfraErrorPolicy
	logger *log.Logger
}

// NewResolver creates a resolver with the default fail-open policy.
func NewResolver(docs docstore.Client, logger *log.Logger) *Resolver {
	return &Resolver{docs: docs, logger: logger}
}

// WithPolicy overrides the infrastructure-error policy.
func (r *Resolver) WithPolicy(policy InfraErrorPolicy) *Resolver {
	r.policy = policy
	return r
}

// Resolve determines the role for the identity. The checks are mutually
// exclusive and ordered: a managers record wins regardless of any
// psychologists record; absence from both collections means patient, which
// is the only role without a backing document. A PermissionDenied read is
// expected for non-managers and treated as absence.
func (r *Resolver) Resolve(ctx context.Context, ident identity.Identity) Role {
	checks := []struct {
		collection string
		role       Role
	}{
		{ManagerCollection, RoleManager},
		{PsychologistCollection, RolePsychologist},
	}

	for _, check := range checks {
		_, err := r.docs.Get(ctx, check.collection, ident.ID)
		switch {
		case err == nil:
			return check.role
		case errors.Is(err, docstore.ErrNotFound), errors.Is(err, docstore.ErrPermissionDenied):
			// Absence, move on.
		default:
			if r.policy == FailClosed {
				r.logf("session: %s lookup for %s failed, resolution unresolved: %v", check.collection, ident.ID, err)
				return RoleUnresolved
			}
			r.logf("session: %s lookup for %s failed, continuing to next check: %v", check.collection, ident.ID, err)
		}
	}

	return RolePatient
}

func (r *Resolver) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
