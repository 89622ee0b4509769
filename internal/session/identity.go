package session

import "strings"

// IdentityKind distinguishes the session variants. The old string sentinel
// ("guest") survives only at the persistence boundary.
type IdentityKind string

const (
	IdentityAnonymous IdentityKind = "anonymous"
	IdentityGuest     IdentityKind = "guest"
	IdentityUser      IdentityKind = "user"
)

// guestSentinel is the legacy on-disk marker for a guest session.
const guestSentinel = "guest"

// Identity is a closed variant: an anonymous session, a guest session, or a
// signed-in user with an email.
type Identity struct {
	Kind  IdentityKind
	Email string
}

// Anonymous is a session with no stored identity string.
func Anonymous() Identity {
	return Identity{Kind: IdentityAnonymous}
}

// Guest is an authenticated-but-anonymous session.
func Guest() Identity {
	return Identity{Kind: IdentityGuest}
}

// User is a signed-in session for the given email.
func User(email string) Identity {
	return Identity{Kind: IdentityUser, Email: NormalizeEmail(email)}
}

// IsGuest reports whether this is a guest session.
func (i Identity) IsGuest() bool {
	return i.Kind == IdentityGuest
}

// persistedValue maps the variant onto the stored identity string. The empty
// second return means the entry should be absent.
func (i Identity) persistedValue() (string, bool) {
	switch i.Kind {
	case IdentityGuest:
		return guestSentinel, true
	case IdentityUser:
		return i.Email, true
	default:
		return "", false
	}
}

// identityFromPersisted rebuilds the variant from the stored string.
func identityFromPersisted(value string, present bool) Identity {
	if !present || value == "" {
		return Anonymous()
	}
	if value == guestSentinel {
		return Guest()
	}
	return User(value)
}

// NormalizeEmail lowercases and trims an email for use as a registry key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
