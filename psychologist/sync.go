package psychologist

import (
	"context"
	"errors"
	"fmt"

	"psiconnect/blobstore"
	"psiconnect/docstore"
)

// Update writes the editable profile fields and, when newPhoto is non-empty,
// replaces the photo.
//
// Photo replacement runs delete-old, upload-new, update-record, in that
// order, so the record never points at content that was already deleted. A
// not-found on the old photo is tolerated; any other deletion failure is
// logged and does not block the replacement. Old and new photos share the one
// path derived from the profile id, so the upload itself overwrites.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams, newPhoto []byte) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	partial := docstore.Document{
		"socialName":  params.SocialName,
		"crp":         params.CRP,
		"phone":       params.Phone,
		"bio":         params.Bio,
		"specialties": normalizeSpecialties(params.Specialties),
	}

	if len(newPhoto) > 0 {
		current, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		if current.PhotoURL != "" {
			if err := s.blobs.Delete(ctx, PhotoPath(id)); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
				s.logf("psychologist: delete old photo for %s: %v", id, err)
			}
		}

		ref, err := s.blobs.Upload(ctx, PhotoPath(id), newPhoto)
		if err != nil {
			return fmt.Errorf("psychologist: upload replacement photo for %s: %w", id, err)
		}
		partial["photoURL"] = ref
	}

	if err := s.docs.Update(ctx, ProfileCollection, id, partial); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("psychologist: update %s: %w", id, err)
	}

	return nil
}

// Delete removes the practitioner's profile document and then makes a
// best-effort attempt on the photo. Document deletion is what callers
// observe; a failed photo deletion leaves an orphaned blob no record
// references, which is cleanup debt, not an error. The owning identity is
// never deleted here.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	// Capture the photo reference before the document disappears.
	photoURL := ""
	switch current, err := s.Get(ctx, id); {
	case err == nil:
		photoURL = current.PhotoURL
	case errors.Is(err, ErrProfileNotFound):
		// Already gone; deletion stays idempotent.
	default:
		return err
	}

	if err := s.docs.Delete(ctx, ProfileCollection, id); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("psychologist: delete profile %s: %w", id, err)
	}

	if photoURL != "" {
		if err := s.blobs.Delete(ctx, PhotoPath(id)); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
			s.logf("psychologist: delete photo for %s: %v", id, err)
		}
	}

	return nil
}
