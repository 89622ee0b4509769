package session

import (
	"context"
	"regexp"

	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
	"github.com/luxe-commerce/storefront/pkg/localstore"
	"github.com/luxe-commerce/storefront/pkg/security"
)

// MinPasswordLen is the signup floor.
const MinPasswordLen = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Credential is one stored account entry, keyed by lowercased email.
type Credential struct {
	Name string `json:"name,omitempty"`
	Salt string `json:"salt"`
	Hash string `json:"hash"`
}

// Registry keeps the email-to-credential map in its own bucket. Entries are
// read back from the bucket on every call rather than cached; the map is tiny
// and this keeps concurrent writers trivially correct.
type Registry struct {
	kv localstore.KV
}

// NewRegistry builds a credential registry over the shared KV.
func NewRegistry(kv localstore.KV) (*Registry, error) {
	if kv == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kv is required")
	}
	return &Registry{kv: kv}, nil
}

// Register validates and stores a new credential, returning the normalized
// email. Unlike store mutations, a failed credential write surfaces as an
// error: silently losing an account is worse than failing signup.
func (r *Registry) Register(ctx context.Context, email, name, password string) (string, error) {
	normalized := NormalizeEmail(email)
	if !emailPattern.MatchString(normalized) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "please enter a valid email address")
	}
	if len(password) < MinPasswordLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	users, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	if _, exists := users[normalized]; exists {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "an account with that email already exists")
	}

	salt, err := security.RandomSalt(security.DefaultSaltLen)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate salt")
	}
	hash, err := security.HashWithSalt(password, salt)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	users[normalized] = Credential{Name: name, Salt: salt, Hash: hash}
	if err := localstore.SaveJSON(ctx, r.kv, localstore.KeyCredentials, users); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store credential")
	}
	return normalized, nil
}

// Authenticate checks a password against the stored credential and returns
// the normalized email on success.
func (r *Registry) Authenticate(ctx context.Context, email, password string) (string, error) {
	normalized := NormalizeEmail(email)
	users, err := r.load(ctx)
	if err != nil {
		return "", err
	}

	user, exists := users[normalized]
	if !exists {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "no account found for this email")
	}

	ok, err := security.Verify(password, user.Salt, user.Hash)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "email or password is incorrect")
	}
	return normalized, nil
}

// Lookup returns the stored entry for an email, mainly for account pages.
func (r *Registry) Lookup(ctx context.Context, email string) (Credential, error) {
	users, err := r.load(ctx)
	if err != nil {
		return Credential{}, err
	}
	user, exists := users[NormalizeEmail(email)]
	if !exists {
		return Credential{}, pkgerrors.New(pkgerrors.CodeNotFound, "no account found for this email")
	}
	return user, nil
}

func (r *Registry) load(ctx context.Context) (map[string]Credential, error) {
	users := map[string]Credential{}
	if _, err := localstore.LoadJSON(ctx, r.kv, localstore.KeyCredentials, &users); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load credentials")
	}
	return users, nil
}
