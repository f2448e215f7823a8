package psychologist

import (
	"errors"
	"fmt"

	"psiconnect/docstore"
	"psiconnect/identity"
)

// ProfileCollection is the document collection holding practitioner
// profiles. The same collection doubles as the psychologist authority
// collection: presence of a profile is what grants the role.
const ProfileCollection = "psychologists"

const photoPathPrefix = "psychologist-photos/"

// PhotoPath derives the blob path for a profile's photo. The path is a pure
// function of the profile id, so a profile can never own more than one live
// photo: uploads for the same profile always land on the same path.
func PhotoPath(profileID string) string {
	return photoPathPrefix + profileID
}

var (
	// ErrOperationInFlight signals that another create/update/delete is
	// still running; the caller should retry once it settles.
	ErrOperationInFlight = errors.New("psychologist: operation already in flight")
	// ErrProfileNotFound signals that no profile document exists for the id.
	ErrProfileNotFound = errors.New("psychologist: profile not found")
)

// Profile is the practitioner-facing record, keyed by the owning identity's
// id. That equality is an invariant, not a convention: the provisioning
// workflow writes the document under the freshly minted identity id and
// nothing else ever creates profiles.
type Profile struct {
	ID          string
	Name        string
	Email       string
	SocialName  string
	CRP         string
	Phone       string
	Bio         string
	Specialties []string
	PhotoURL    string
}

// ProvisionParams carries everything needed to create a practitioner:
// profile fields, the initial credential, and an optional photo.
type ProvisionParams struct {
	Name        string
	SocialName  string
	CRP         string
	Phone       string
	Email       string
	Bio         string
	Specialties []string
	Password    string
	Photo       []byte
}

// UpdateParams carries the editable profile fields. Name and email are fixed
// at provisioning time.
type UpdateParams struct {
	SocialName  string
	CRP         string
	Phone       string
	Bio         string
	Specialties []string
}

// PartialProvisionError reports a provisioning run that created an identity
// (and possibly a photo) but failed to write the profile document. The
// workflow performs no compensating deletion; the error carries what was
// created so an explicit cleanup can be run later.
type PartialProvisionError struct {
	Identity identity.Identity
	PhotoURL string
	Err      error
}

func (e *PartialProvisionError) Error() string {
	return fmt.Sprintf("psychologist: profile write failed after identity %s was created: %v", e.Identity.ID, e.Err)
}

func (e *PartialProvisionError) Unwrap() error {
	return e.Err
}

func encodeProfile(p Profile) docstore.Document {
	return docstore.Document{
		"name":        p.Name,
		"email":       p.Email,
		"socialName":  p.SocialName,
		"crp":         p.CRP,
		"phone":       p.Phone,
		"bio":         p.Bio,
		"specialties": p.Specialties,
		"photoURL":    p.PhotoURL,
	}
}

func decodeProfile(id string, doc docstore.Document) Profile {
	return Profile{
		ID:          id,
		Name:        stringField(doc, "name"),
		Email:       stringField(doc, "email"),
		SocialName:  stringField(doc, "socialName"),
		CRP:         stringField(doc, "crp"),
		Phone:       stringField(doc, "phone"),
		Bio:         stringField(doc, "bio"),
		Specialties: stringSliceField(doc, "specialties"),
		PhotoURL:    stringField(doc, "photoURL"),
	}
}

func stringField(doc docstore.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

// stringSliceField tolerates both []string (memory store) and []any
// (anything that round-tripped through JSON).
func stringSliceField(doc docstore.Document, key string) []string {
	switch v := doc[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
