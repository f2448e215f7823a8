package psychologist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"psiconnect/blobstore"
	"psiconnect/docstore"
	"psiconnect/identity"
)

// AuthContext is the slice of an identity client the provisioning workflow
// needs: mint one identity, then release. *identity.Client satisfies it.
type AuthContext interface {
	CreateIdentity(ctx context.Context, email, password string) (identity.Identity, error)
	Close() error
}

// Service owns practitioner provisioning and profile/photo maintenance.
type Service struct {
	docs           docstore.Client
	blobs          blobstore.Client
	newAuthContext func() (AuthContext, error)
	logger         *log.Logger
	inFlight       atomic.Bool
}

// NewService builds the service. newAuthContext acquires a disposable
// identity client isolated from the caller's session; it is invoked once per
// provisioning run and the handle is released on every exit path.
func NewService(docs docstore.Client, blobs blobstore.Client, newAuthContext func() (AuthContext, error), logger *log.Logger) *Service {
	return &Service{
		docs:           docs,
		blobs:          blobs,
		newAuthContext: newAuthContext,
		logger:         logger,
	}
}

// begin gates mutating operations behind a single in-flight flag. There is
// no queueing or retry; a rejected caller simply tries again later.
func (s *Service) begin() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrOperationInFlight
	}
	return nil
}

func (s *Service) end() {
	s.inFlight.Store(false)
}

// Get returns the profile for the given id.
func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	doc, err := s.docs.Get(ctx, ProfileCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("psychologist: get %s: %w", id, err)
	}
	return decodeProfile(id, doc), nil
}

// List returns every practitioner profile.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	docs, err := s.docs.ListAll(ctx, ProfileCollection)
	if err != nil {
		return nil, fmt.Errorf("psychologist: list: %w", err)
	}

	profiles := make([]Profile, 0, len(docs))
	for _, doc := range docs {
		profiles = append(profiles, decodeProfile(stringField(doc, "id"), doc))
	}
	return profiles, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
