package session

import (
	"context"
	"sync"

	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
	"github.com/luxe-commerce/storefront/pkg/localstore"
	"github.com/luxe-commerce/storefront/pkg/logger"
	"github.com/luxe-commerce/storefront/pkg/metrics"
)

const storeName = "session"

// StoreParams groups dependencies for the session store.
type StoreParams struct {
	KV      localstore.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
}

// Store tracks the authenticated flag and the identity variant. The two
// persisted entries are scalars, not a JSON bucket, to keep the layout the
// web client used.
type Store struct {
	mu            sync.Mutex
	authenticated bool
	identity      Identity
	kv            localstore.KV
	logg          *logger.Logger
	metrics       *metrics.StoreMetrics
}

// NewStore rehydrates the session from the persisted scalar entries.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kv is required")
	}
	s := &Store{
		kv:       params.KV,
		logg:     params.Logger,
		metrics:  params.Metrics,
		identity: Anonymous(),
	}

	flag, ok, err := s.kv.Get(ctx, localstore.KeyAuthenticated)
	if err == nil && ok && string(flag) == "true" {
		s.authenticated = true
	}
	raw, ok, err := s.kv.Get(ctx, localstore.KeyAuthUser)
	if err == nil {
		s.identity = identityFromPersisted(string(raw), ok)
	}
	return s, nil
}

// Login marks the session authenticated under the given identity.
func (s *Store) Login(ctx context.Context, identity Identity) {
	s.mu.Lock()
	s.authenticated = true
	s.identity = identity
	s.mu.Unlock()

	s.metrics.IncMutation(storeName, "login")
	s.persistFlag(ctx, true)
	if value, present := identity.persistedValue(); present {
		s.persistEntry(ctx, localstore.KeyAuthUser, value)
	} else {
		s.deleteEntry(ctx, localstore.KeyAuthUser)
	}
}

// Logout clears the session and removes both persisted entries outright.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.authenticated = false
	s.identity = Anonymous()
	s.mu.Unlock()

	s.metrics.IncMutation(storeName, "logout")
	s.deleteEntry(ctx, localstore.KeyAuthenticated)
	s.deleteEntry(ctx, localstore.KeyAuthUser)
}

// IsAuthenticated is the predicate route gating runs on.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Identity returns the current session variant.
func (s *Store) Identity() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Store) persistFlag(ctx context.Context, value bool) {
	raw := "false"
	if value {
		raw = "true"
	}
	s.persistEntry(ctx, localstore.KeyAuthenticated, raw)
}

func (s *Store) persistEntry(ctx context.Context, key, value string) {
	if err := s.kv.Set(ctx, key, []byte(value)); err != nil {
		s.metrics.IncPersistFailure(storeName)
		if s.logg != nil {
			s.logg.Error(s.logg.WithStore(ctx, storeName), "session persist failed", err)
		}
	}
}

func (s *Store) deleteEntry(ctx context.Context, key string) {
	if err := s.kv.Delete(ctx, key); err != nil {
		s.metrics.IncPersistFailure(storeName)
		if s.logg != nil {
			s.logg.Error(s.logg.WithStore(ctx, storeName), "session entry delete failed", err)
		}
	}
}
