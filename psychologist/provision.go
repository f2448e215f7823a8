package psychologist

import (
	"context"
	"fmt"
	"strings"
)

// Provision creates a brand-new practitioner: identity, optional photo, and
// profile document, in that strict order with no parallelism.
//
// The identity is minted through a secondary auth context so the manager
// driving the call keeps their own session; the context is released on every
// exit path. Identity creation failure aborts with no side effects. Photo
// upload failure aborts before the profile write, leaving the created
// identity behind. Profile write failure is reported as a
// *PartialProvisionError; nothing is compensated.
func (s *Service) Provision(ctx context.Context, params ProvisionParams) (Profile, error) {
	if err := validateProvisionParams(params); err != nil {
		return Profile{}, err
	}

	if err := s.begin(); err != nil {
		return Profile{}, err
	}
	defer s.end()

	auth, err := s.newAuthContext()
	if err != nil {
		return Profile{}, fmt.Errorf("psychologist: acquire auth context: %w", err)
	}
	defer func() {
		if cerr := auth.Close(); cerr != nil {
			s.logf("psychologist: release auth context: %v", cerr)
		}
	}()

	ident, err := auth.CreateIdentity(ctx, params.Email, params.Password)
	if err != nil {
		return Profile{}, err
	}

	photoURL := ""
	if len(params.Photo) > 0 {
		photoURL, err = s.blobs.Upload(ctx, PhotoPath(ident.ID), params.Photo)
		if err != nil {
			return Profile{}, fmt.Errorf("psychologist: upload photo for %s: %w", ident.ID, err)
		}
	}

	profile := Profile{
		ID:          ident.ID,
		Name:        params.Name,
		Email:       params.Email,
		SocialName:  params.SocialName,
		CRP:         params.CRP,
		Phone:       params.Phone,
		Bio:         params.Bio,
		Specialties: normalizeSpecialties(params.Specialties),
		PhotoURL:    photoURL,
	}

	if err := s.docs.Set(ctx, ProfileCollection, ident.ID, encodeProfile(profile)); err != nil {
		return Profile{}, &PartialProvisionError{Identity: ident, PhotoURL: photoURL, Err: err}
	}

	return profile, nil
}

func validateProvisionParams(params ProvisionParams) error {
	required := []struct {
		field string
		value string
	}{
		{"name", params.Name},
		{"social name", params.SocialName},
		{"crp", params.CRP},
		{"phone", params.Phone},
		{"email", params.Email},
		{"bio", params.Bio},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("psychologist: %s is required", r.field)
		}
	}
	if len(normalizeSpecialties(params.Specialties)) == 0 {
		return fmt.Errorf("psychologist: at least one specialty is required")
	}
	return nil
}

// normalizeSpecialties trims entries and drops empties, preserving order.
func normalizeSpecialties(specialties []string) []string {
	out := make([]string, 0, len(specialties))
	for _, s := range specialties {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
