// Package admin assembles the Admin schema of the cachewatch service: the
// entity types operators can inspect (users, cache items, detected
// inconsistencies), the mutation group acting on them, and the Init entry
// point that generates the schema served over HTTP.
package admin

import (
	"sync"
	"time"

	"github.com/appointy/idgen"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.cachewatch.io/adminapi/schemagen"
)

// Role controls what an admin user may do.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
	RoleViewer   Role = "VIEWER"
)

// InconsistencyKind classifies how a cached value diverged from its
// source of truth.
type InconsistencyKind string

const (
	KindMissing  InconsistencyKind = "MISSING"
	KindStale    InconsistencyKind = "STALE"
	KindDiverged InconsistencyKind = "DIVERGED"
)

// User is an operator account on the admin surface.
type User struct {
	ID        schemagen.ID
	Name      string
	Email     string
	Role      Role
	Active    bool
	CreatedAt time.Time
}

// CacheItem is one entry of the watched cache.
type CacheItem struct {
	Key       string
	Region    string
	SizeBytes int64
	HitCount  int64
	Checksum  []byte
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Inconsistency is a detected divergence between a cached value and its
// source of truth.
type Inconsistency struct {
	ID         schemagen.ID
	Key        string
	Kind       InconsistencyKind
	Detail     string
	DetectedAt time.Time
	Resolved   bool
	ResolvedBy string
}

// Store holds the admin data. It is an in-memory stand-in for the
// service's real stores and is safe for concurrent use by resolvers.
type Store struct {
	mu              sync.Mutex
	users           []*User
	cacheItems      []*CacheItem
	inconsistencies []*Inconsistency
	now             func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Seed fills the store with a small fixed data set for local serving and
// tests.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.users = append(s.users,
		&User{
			ID:        schemagen.ID{Value: "usr_1"},
			Name:      "Ada Root",
			Email:     "ada@cachewatch.io",
			Role:      RoleAdmin,
			Active:    true,
			CreatedAt: now,
		},
		&User{
			ID:        schemagen.ID{Value: "usr_2"},
			Name:      "Sam Ops",
			Email:     "sam@cachewatch.io",
			Role:      RoleOperator,
			Active:    true,
			CreatedAt: now,
		},
	)
	s.cacheItems = append(s.cacheItems,
		&CacheItem{
			Key:       "session:42",
			Region:    "eu-west",
			SizeBytes: 512,
			HitCount:  1031,
			Checksum:  []byte{0x6b, 0x1f, 0xc3, 0x4a},
			StoredAt:  now,
			ExpiresAt: now.Add(30 * time.Minute),
		},
		&CacheItem{
			Key:       "profile:7",
			Region:    "us-east",
			SizeBytes: 2048,
			HitCount:  88,
			Checksum:  []byte{0x9d, 0x02, 0x5e, 0x11},
			StoredAt:  now,
			ExpiresAt: now.Add(time.Hour),
		},
	)
	s.inconsistencies = append(s.inconsistencies,
		&Inconsistency{
			ID:         schemagen.ID{Value: uuid.NewString()},
			Key:        "profile:7",
			Kind:       KindStale,
			Detail:     "cached revision 12 behind source revision 14",
			DetectedAt: now,
		},
	)
}

// Users returns all users.
func (s *Store) Users() []*User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*User(nil), s.users...)
}

// User returns the user with the given id.
func (s *Store) User(id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Value == id {
			return u, nil
		}
	}
	return nil, status.Errorf(codes.NotFound, "user %s not found", id)
}

// CreateUser adds a new active user.
func (s *Store) CreateUser(name, email string, role Role) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, status.Errorf(codes.AlreadyExists, "user with email %s already exists", email)
		}
	}
	u := &User{
		ID:        schemagen.ID{Value: idgen.New("usr")},
		Name:      name,
		Email:     email,
		Role:      role,
		Active:    true,
		CreatedAt: s.now(),
	}
	s.users = append(s.users, u)
	return u, nil
}

// SetUserActive flips a user's active flag.
func (s *Store) SetUserActive(id string, active bool) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Value == id {
			u.Active = active
			return u, nil
		}
	}
	return nil, status.Errorf(codes.NotFound, "user %s not found", id)
}

// CacheItems returns the cache entries, optionally filtered by region.
func (s *Store) CacheItems(region *string) []*CacheItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]*CacheItem, 0, len(s.cacheItems))
	for _, item := range s.cacheItems {
		if region != nil && item.Region != *region {
			continue
		}
		items = append(items, item)
	}
	return items
}

// CacheItem returns the cache entry with the given key.
func (s *Store) CacheItem(key string) (*CacheItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.cacheItems {
		if item.Key == key {
			return item, nil
		}
	}
	return nil, status.Errorf(codes.NotFound, "cache item %s not found", key)
}

// EvictCacheItem removes the cache entry with the given key and reports
// whether an entry was removed.
func (s *Store) EvictCacheItem(key string) (*CacheItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.cacheItems {
		if item.Key == key {
			s.cacheItems = append(s.cacheItems[:i], s.cacheItems[i+1:]...)
			return item, nil
		}
	}
	return nil, status.Errorf(codes.NotFound, "cache item %s not found", key)
}

// Inconsistencies returns the recorded inconsistencies. With onlyOpen set,
// resolved records are filtered out.
func (s *Store) Inconsistencies(onlyOpen bool) []*Inconsistency {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]*Inconsistency, 0, len(s.inconsistencies))
	for _, record := range s.inconsistencies {
		if onlyOpen && record.Resolved {
			continue
		}
		records = append(records, record)
	}
	return records
}

// Inconsistency returns the record with the given id.
func (s *Store) Inconsistency(id string) (*Inconsistency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.inconsistencies {
		if record.ID.Value == id {
			return record, nil
		}
	}
	return nil, status.Errorf(codes.NotFound, "inconsistency %s not found", id)
}

// ReportInconsistency records a newly detected inconsistency.
func (s *Store) ReportInconsistency(key string, kind InconsistencyKind, detail string) *Inconsistency {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := &Inconsistency{
		ID:         schemagen.ID{Value: uuid.NewString()},
		Key:        key,
		Kind:       kind,
		Detail:     detail,
		DetectedAt: s.now(),
	}
	s.inconsistencies = append(s.inconsistencies, record)
	return record
}

// ResolveInconsistency marks a record resolved.
func (s *Store) ResolveInconsistency(id, resolvedBy string) (*Inconsistency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.inconsistencies {
		if record.ID.Value == id {
			if record.Resolved {
				return nil, status.Errorf(codes.FailedPrecondition, "inconsistency %s already resolved", id)
			}
			record.Resolved = true
			record.ResolvedBy = resolvedBy
			return record, nil
		}
	}
	return nil, status.Errorf(codes.NotFound, "inconsistency %s not found", id)
}
