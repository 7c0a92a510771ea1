package in_mem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/google/uuid"
)

// Table is an insertion-ordered, mutex-guarded set of records keyed by id.
// Find evaluates predicates in memory.
type Table[T filter.Record] struct {
	storageLock sync.RWMutex
	order       []uuid.UUID
	storage     map[uuid.UUID]T
	id          func(T) uuid.UUID
}

func NewTable[T filter.Record](id func(T) uuid.UUID) *Table[T] {
	return &Table[T]{
		storage: make(map[uuid.UUID]T),
		id:      id,
	}
}

// Put upserts recs. A record without an id is assigned a new one.
func (t *Table[T]) Put(recs []T, withID func(T, uuid.UUID) T) {
	t.storageLock.Lock()
	defer t.storageLock.Unlock()

	for _, r := range recs {
		id := t.id(r)
		if id == uuid.Nil {
			id = uuid.New()
			r = withID(r, id)
		}
		if _, ok := t.storage[id]; !ok {
			t.order = append(t.order, id)
		}
		t.storage[id] = r
	}
}

func (t *Table[T]) Find(_ context.Context, p filter.Predicate[T]) ([]T, error) {
	t.storageLock.RLock()
	defer t.storageLock.RUnlock()

	out := make([]T, 0)
	if p.IsAlways(false) {
		return out, nil
	}
	for _, id := range t.order {
		if r := t.storage[id]; p.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t *Table[T]) Len() int {
	t.storageLock.RLock()
	defer t.storageLock.RUnlock()
	return len(t.order)
}

// InMemStorer keeps listings and businesses in process memory.
type InMemStorer struct {
	Listings   *Table[domain.Listing]
	Businesses *Table[domain.Business]
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		Listings:   NewTable(func(l domain.Listing) uuid.UUID { return l.ID }),
		Businesses: NewTable(func(b domain.Business) uuid.UUID { return b.ID }),
	}
}

func (s *InMemStorer) SaveBusinesses(_ context.Context, businesses []domain.Business) error {
	s.Businesses.Put(businesses, func(b domain.Business, id uuid.UUID) domain.Business {
		b.ID = id
		return b
	})
	slog.Info("Saved businesses to in-memory storage", "count", len(businesses))
	return nil
}

func (s *InMemStorer) SaveListings(_ context.Context, listings []domain.Listing) error {
	s.Listings.Put(listings, func(l domain.Listing, id uuid.UUID) domain.Listing {
		l.ID = id
		return l
	})
	slog.Info("Saved listings to in-memory storage", "count", len(listings))
	return nil
}
