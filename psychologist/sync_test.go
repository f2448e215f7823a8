package psychologist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"psiconnect/blobstore"
	"psiconnect/docstore"
)

func provisionWithPhoto(t *testing.T, f *fixture, email string) Profile {
	t.Helper()
	params := validParams()
	params.Email = email
	params.Photo = []byte("old-photo")
	profile, err := f.svc.Provision(context.Background(), params)
	if err != nil {
		t.Fatalf("provision fixture profile: %v", err)
	}
	return profile
}

func TestUpdate_WithoutPhotoLeavesAssetAlone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profile := provisionWithPhoto(t, f, "ana@x.com")

	err := f.svc.Update(ctx, profile.ID, UpdateParams{
		SocialName:  "Ana B. Silva",
		CRP:         profile.CRP,
		Phone:       "11 90000-1111",
		Bio:         profile.Bio,
		Specialties: []string{"TCC"},
	}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	updated, err := f.svc.Get(ctx, profile.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.SocialName != "Ana B. Silva" || updated.Phone != "11 90000-1111" {
		t.Fatalf("expected updated fields, got %+v", updated)
	}
	if updated.PhotoURL != profile.PhotoURL {
		t.Fatalf("photo reference must be untouched: got %q want %q", updated.PhotoURL, profile.PhotoURL)
	}

	content, ok := f.blobs.Get(PhotoPath(profile.ID))
	if !ok || !bytes.Equal(content, []byte("old-photo")) {
		t.Fatalf("photo content must be untouched, got %q ok=%v", content, ok)
	}
}

func TestUpdate_WithReplacementPhoto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profile := provisionWithPhoto(t, f, "ana@x.com")

	err := f.svc.Update(ctx, profile.ID, UpdateParams{
		SocialName:  profile.SocialName,
		CRP:         profile.CRP,
		Phone:       profile.Phone,
		Bio:         profile.Bio,
		Specialties: profile.Specialties,
	}, []byte("new-photo"))
	if err != nil {
		t.Fatalf("update with photo: %v", err)
	}

	// Exactly one blob lives at the derived path and it is the new content.
	if f.blobs.Len() != 1 {
		t.Fatalf("expected exactly one blob, got %d", f.blobs.Len())
	}
	content, ok := f.blobs.Get(PhotoPath(profile.ID))
	if !ok || !bytes.Equal(content, []byte("new-photo")) {
		t.Fatalf("expected replaced content, got %q ok=%v", content, ok)
	}

	// The reference value is unchanged because old and new share one path.
	updated, err := f.svc.Get(ctx, profile.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.PhotoURL != profile.PhotoURL {
		t.Fatalf("expected same path-derived reference, got %q want %q", updated.PhotoURL, profile.PhotoURL)
	}
}

func TestUpdate_ReplacementToleratesMissingOldPhoto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profile := provisionWithPhoto(t, f, "ana@x.com")

	// Someone already removed the blob; the record still references it.
	if err := f.blobs.Delete(ctx, PhotoPath(profile.ID)); err != nil {
		t.Fatalf("remove blob: %v", err)
	}

	err := f.svc.Update(ctx, profile.ID, UpdateParams{
		SocialName:  profile.SocialName,
		CRP:         profile.CRP,
		Phone:       profile.Phone,
		Bio:         profile.Bio,
		Specialties: profile.Specialties,
	}, []byte("new-photo"))
	if err != nil {
		t.Fatalf("expected not-found on old photo to be tolerated, got %v", err)
	}

	content, ok := f.blobs.Get(PhotoPath(profile.ID))
	if !ok || !bytes.Equal(content, []byte("new-photo")) {
		t.Fatalf("expected new content present, got %q ok=%v", content, ok)
	}
}

type failingDeleteBlobs struct {
	*blobstore.Memory
	deleteErr error
}

func (f *failingDeleteBlobs) Delete(ctx context.Context, path string) error {
	return f.deleteErr
}

func TestUpdate_ReplacementSurvivesOldDeleteFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profile := provisionWithPhoto(t, f, "ana@x.com")

	f.svc.blobs = &failingDeleteBlobs{Memory: f.blobs, deleteErr: fmt.Errorf("backend flake")}

	err := f.svc.Update(ctx, profile.ID, UpdateParams{
		SocialName:  profile.SocialName,
		CRP:         profile.CRP,
		Phone:       profile.Phone,
		Bio:         profile.Bio,
		Specialties: profile.Specialties,
	}, []byte("new-photo"))
	if err != nil {
		t.Fatalf("old-photo delete failure must not block replacement, got %v", err)
	}

	content, ok := f.blobs.Get(PhotoPath(profile.ID))
	if !ok || !bytes.Equal(content, []byte("new-photo")) {
		t.Fatalf("expected new content despite delete failure, got %q ok=%v", content, ok)
	}
}

func TestUpdate_UploadFailureLeavesRecordIntact(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profile := provisionWithPhoto(t, f, "ana@x.com")

	f.svc.blobs = &failingUploadBlobs{Memory: f.blobs}

	err := f.svc.Update(ctx, profile.ID, UpdateParams{
		SocialName:  "Changed",
		CRP:         profile.CRP,
		Phone:       profile.Phone,
		Bio:         profile.Bio,
		Specialties: profile.Specialties,
	}, []byte("new-photo"))
	if err == nil {
		t.Fatal("expected upload failure to surface")
	}

	// The record was not touched: social name and reference are unchanged.
	current, err := f.svc.Get(ctx, profile.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current.SocialName != profile.SocialName || current.PhotoURL != profile.PhotoURL {
		t.Fatalf("record must be intact after failed upload, got %+v", current)
	}
}

func TestUpdate_MissingProfile(t *testing.T) {
	f := newFixture()

	err := f.svc.Update(context.Background(), "missing", UpdateParams{SocialName: "x"}, nil)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDelete_RemovesDocumentAndPhoto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profile := provisionWithPhoto(t, f, "ana@x.com")

	if err := f.svc.Delete(ctx, profile.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.svc.Get(ctx, profile.ID); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}
	if f.blobs.Len() != 0 {
		t.Fatalf("expected photo gone, got %d blobs", f.blobs.Len())
	}

	// The owning identity survives profile deletion.
	if _, err := f.dir.Authenticate(ctx, "ana@x.com", "p123456"); err != nil {
		t.Fatalf("expected identity to survive profile deletion: %v", err)
	}
}

func TestDelete_SucceedsWhenPhotoDeleteFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profile := provisionWithPhoto(t, f, "ana@x.com")

	f.svc.blobs = &failingDeleteBlobs{Memory: f.blobs, deleteErr: fmt.Errorf("backend flake")}

	if err := f.svc.Delete(ctx, profile.ID); err != nil {
		t.Fatalf("delete must succeed despite photo deletion failure, got %v", err)
	}
	if _, err := f.docs.Get(ctx, ProfileCollection, profile.ID); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected document gone, got %v", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	f := newFixture()

	if err := f.svc.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("expected idempotent delete of missing profile, got %v", err)
	}
}
