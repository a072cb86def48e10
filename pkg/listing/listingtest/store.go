// Package listingtest provides an in-memory listing.Store for tests.
package listingtest

import (
	"context"
	"sync"

	"github.com/nimburion/airbnb-listings/pkg/listing"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps listings in insertion order and evaluates filters with Filter.Matches.
// Setting Err makes every operation fail with it.
type MemoryStore struct {
	mu       sync.RWMutex
	listings []listing.Listing
	Err      error
}

// NewMemoryStore returns a store seeded with listings.
func NewMemoryStore(seed ...listing.Listing) *MemoryStore {
	s := &MemoryStore{}
	for i := range seed {
		l := seed[i]
		if l.MongoID.IsZero() {
			l.MongoID = primitive.NewObjectID()
		}
		s.listings = append(s.listings, l)
	}
	return s
}

// All returns a copy of every stored listing.
func (s *MemoryStore) All() []listing.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]listing.Listing(nil), s.listings...)
}

func (s *MemoryStore) Count(_ context.Context, filter listing.Filter) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for i := range s.listings {
		if filter.Matches(&s.listings[i]) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Find(_ context.Context, filter listing.Filter, skip, limit int64) ([]listing.Listing, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []listing.Listing
	var seen int64
	for i := range s.listings {
		if !filter.Matches(&s.listings[i]) {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		out = append(out, s.listings[i])
	}
	return out, nil
}

func (s *MemoryStore) FindOne(_ context.Context, filter listing.Filter) (*listing.Listing, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.listings {
		if filter.Matches(&s.listings[i]) {
			l := s.listings[i]
			return &l, nil
		}
	}
	return nil, listing.ErrNotFound
}

func (s *MemoryStore) Insert(_ context.Context, l *listing.Listing) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *l
	if stored.MongoID.IsZero() {
		stored.MongoID = primitive.NewObjectID()
	}
	s.listings = append(s.listings, stored)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, filter listing.Filter, changes listing.Changes) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.listings {
		if filter.Matches(&s.listings[i]) {
			changes.Apply(&s.listings[i])
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, filter listing.Filter) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.listings {
		if filter.Matches(&s.listings[i]) {
			s.listings = append(s.listings[:i], s.listings[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ listing.Store = (*MemoryStore)(nil)
