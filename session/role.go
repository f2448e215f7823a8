package session

// Role is the derived authorization classification for a session. It is
// never persisted on the identity; every value except RolePatient and
// RoleAnonymous is backed by a document in an authority collection.
type Role string

const (
	RoleManager      Role = "manager"
	RolePsychologist Role = "psychologist"
	RolePatient      Role = "patient"
	// RoleUnresolved is the transient role between an identity change and
	// the completion of authority lookups.
	RoleUnresolved Role = "unresolved"
	// RoleAnonymous is the role of a signed-out session.
	RoleAnonymous Role = "anonymous"
)

// Authority collections. Presence of a document keyed by identity id grants
// the role; document content is irrelevant.
const (
	ManagerCollection      = "managers"
	PsychologistCollection = "psychologists"
)
