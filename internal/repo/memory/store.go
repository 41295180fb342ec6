// Package memory provides in-memory implementations of the repo interfaces.
// It backs dev mode (no DATABASE_URL) and the save-engine tests, which need a
// real store to exercise multi-step reconciliation without Postgres.
//
// The store enforces the same duplicate rules as the SQL schema: unique
// (text, author) for quotes and unique (street, zip_code, city, country) for
// addresses, reported as domain.DuplicateError just like the Postgres repos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"friendbook/internal/domain"
	"friendbook/internal/repo"
)

// Store holds every record kind behind one mutex. The repo views returned by
// Friends/Pets/Quotes/Addresses all share it, so cross-entity reads (a friend
// with its children) are consistent.
type Store struct {
	mu sync.RWMutex

	friends   map[uuid.UUID]domain.Friend
	pets      map[uuid.UUID]domain.Pet
	quotes    map[uuid.UUID]domain.Quote
	addresses map[uuid.UUID]domain.Address

	// friendQuotes is the many-to-many link: friend id → set of quote ids.
	friendQuotes map[uuid.UUID]map[uuid.UUID]bool

	// seq preserves insertion order so listings are stable even when two
	// records share a creation timestamp.
	seq     map[uuid.UUID]int
	nextSeq int

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		friends:      map[uuid.UUID]domain.Friend{},
		pets:         map[uuid.UUID]domain.Pet{},
		quotes:       map[uuid.UUID]domain.Quote{},
		addresses:    map[uuid.UUID]domain.Address{},
		friendQuotes: map[uuid.UUID]map[uuid.UUID]bool{},
		seq:          map[uuid.UUID]int{},
		now:          time.Now,
	}
}

// Friends returns the FriendRepo view of the store.
func (s *Store) Friends() repo.FriendRepo { return &friendRepo{s} }

// Pets returns the PetRepo view of the store.
func (s *Store) Pets() repo.PetRepo { return &petRepo{s} }

// Quotes returns the QuoteRepo view of the store.
func (s *Store) Quotes() repo.QuoteRepo { return &quoteRepo{s} }

// Addresses returns the AddressRepo view of the store.
func (s *Store) Addresses() repo.AddressRepo { return &addressRepo{s} }

// track records the insertion order of a new id. Callers hold s.mu.
func (s *Store) track(id uuid.UUID) {
	s.nextSeq++
	s.seq[id] = s.nextSeq
}

// ---- friends ---------------------------------------------------------------

type friendRepo struct{ s *Store }

func (r *friendRepo) Create(ctx context.Context, friend domain.Friend) (domain.Friend, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	friend.ID = uuid.New()
	friend.CreatedAt = now
	friend.UpdatedAt = now
	friend.Address = nil
	friend.Pets = nil
	friend.Quotes = nil
	r.s.friends[friend.ID] = friend
	r.s.track(friend.ID)
	return friend, nil
}

func (r *friendRepo) GetByID(ctx context.Context, id uuid.UUID, includeChildren bool) (domain.Friend, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.friends[id]
	if !ok {
		return domain.Friend{}, domain.ErrNotFound
	}
	if !includeChildren {
		return f, nil
	}

	if f.AddressID != nil {
		if a, ok := r.s.addresses[*f.AddressID]; ok {
			f.Address = &a
		}
	}
	f.Pets = r.s.petsOf(id)
	f.Quotes = r.s.quotesOf(id)
	return f, nil
}

func (r *friendRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Friend, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]domain.Friend, 0, len(r.s.friends))
	filter := strings.ToLower(p.Filter)
	for _, f := range r.s.friends {
		if filter != "" &&
			!strings.Contains(strings.ToLower(f.FirstName), filter) &&
			!strings.Contains(strings.ToLower(f.LastName), filter) &&
			!strings.Contains(strings.ToLower(f.Email), filter) {
			continue
		}
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastName != all[j].LastName {
			return all[i].LastName < all[j].LastName
		}
		return all[i].FirstName < all[j].FirstName
	})

	return page(all, p), int64(len(all)), nil
}

func (r *friendRepo) Update(ctx context.Context, friend domain.Friend) (domain.Friend, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.friends[friend.ID]
	if !ok {
		return domain.Friend{}, domain.ErrNotFound
	}
	current.FirstName = friend.FirstName
	current.LastName = friend.LastName
	current.Email = friend.Email
	current.Birthday = friend.Birthday
	current.AddressID = friend.AddressID
	current.UpdatedAt = r.s.now()
	r.s.friends[friend.ID] = current
	return current, nil
}

func (r *friendRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.friends[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.friends, id)
	for pid, p := range r.s.pets {
		if p.FriendID == id {
			delete(r.s.pets, pid)
		}
	}
	delete(r.s.friendQuotes, id)
	return nil
}

// ---- pets ------------------------------------------------------------------

type petRepo struct{ s *Store }

func (r *petRepo) Create(ctx context.Context, pet domain.Pet) (domain.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	pet.ID = uuid.New()
	pet.CreatedAt = now
	pet.UpdatedAt = now
	r.s.pets[pet.ID] = pet
	r.s.track(pet.ID)
	return pet, nil
}

func (r *petRepo) Update(ctx context.Context, pet domain.Pet) (domain.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.pets[pet.ID]
	if !ok {
		return domain.Pet{}, domain.ErrNotFound
	}
	current.Name = pet.Name
	current.Kind = pet.Kind
	current.Mood = pet.Mood
	current.UpdatedAt = r.s.now()
	r.s.pets[pet.ID] = current
	return current, nil
}

func (r *petRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.pets, id)
	return nil
}

func (r *petRepo) ListByFriend(ctx context.Context, friendID uuid.UUID) ([]domain.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.petsOf(friendID), nil
}

// petsOf collects a friend's pets in insertion order. Callers hold s.mu.
func (s *Store) petsOf(friendID uuid.UUID) []domain.Pet {
	out := []domain.Pet{}
	for _, p := range s.pets {
		if p.FriendID == friendID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.seq[out[i].ID] < s.seq[out[j].ID] })
	return out
}

// ---- quotes ----------------------------------------------------------------

type quoteRepo struct{ s *Store }

func (r *quoteRepo) Create(ctx context.Context, quote domain.Quote, friendIDs []uuid.UUID) (domain.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, q := range r.s.quotes {
		if q.Text == quote.Text && q.Author == quote.Author {
			return domain.Quote{}, &domain.DuplicateError{Entity: "quote"}
		}
	}

	now := r.s.now()
	quote.ID = uuid.New()
	quote.CreatedAt = now
	quote.UpdatedAt = now
	r.s.quotes[quote.ID] = quote
	r.s.track(quote.ID)

	for _, fid := range friendIDs {
		links := r.s.friendQuotes[fid]
		if links == nil {
			links = map[uuid.UUID]bool{}
			r.s.friendQuotes[fid] = links
		}
		links[quote.ID] = true
	}
	return quote, nil
}

func (r *quoteRepo) Update(ctx context.Context, quote domain.Quote) (domain.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.quotes[quote.ID]
	if !ok {
		return domain.Quote{}, domain.ErrNotFound
	}
	for _, q := range r.s.quotes {
		if q.ID != quote.ID && q.Text == quote.Text && q.Author == quote.Author {
			return domain.Quote{}, &domain.DuplicateError{Entity: "quote"}
		}
	}
	current.Text = quote.Text
	current.Author = quote.Author
	current.UpdatedAt = r.s.now()
	r.s.quotes[quote.ID] = current
	return current, nil
}

func (r *quoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.quotes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.quotes, id)
	for _, links := range r.s.friendQuotes {
		delete(links, id)
	}
	return nil
}

func (r *quoteRepo) ListByFriend(ctx context.Context, friendID uuid.UUID) ([]domain.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.quotesOf(friendID), nil
}

// quotesOf collects a friend's linked quotes ordered by author then text.
// Callers hold s.mu.
func (s *Store) quotesOf(friendID uuid.UUID) []domain.Quote {
	out := []domain.Quote{}
	for qid := range s.friendQuotes[friendID] {
		if q, ok := s.quotes[qid]; ok {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Author != out[j].Author {
			return out[i].Author < out[j].Author
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// ---- addresses -------------------------------------------------------------

type addressRepo struct{ s *Store }

func (r *addressRepo) Create(ctx context.Context, addr domain.Address) (domain.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.addresses {
		if sameAddress(a, addr) {
			return domain.Address{}, &domain.DuplicateError{Entity: "address"}
		}
	}

	now := r.s.now()
	addr.ID = uuid.New()
	addr.CreatedAt = now
	addr.UpdatedAt = now
	r.s.addresses[addr.ID] = addr
	r.s.track(addr.ID)
	return addr, nil
}

func (r *addressRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.addresses[id]
	if !ok {
		return domain.Address{}, domain.ErrNotFound
	}
	return a, nil
}

func (r *addressRepo) Update(ctx context.Context, addr domain.Address) (domain.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.addresses[addr.ID]
	if !ok {
		return domain.Address{}, domain.ErrNotFound
	}
	for _, a := range r.s.addresses {
		if a.ID != addr.ID && sameAddress(a, addr) {
			return domain.Address{}, &domain.DuplicateError{Entity: "address"}
		}
	}
	current.Street = addr.Street
	current.ZipCode = addr.ZipCode
	current.City = addr.City
	current.Country = addr.Country
	current.UpdatedAt = r.s.now()
	r.s.addresses[addr.ID] = current
	return current, nil
}

func (r *addressRepo) FindMatch(ctx context.Context, street string, zipCode int, city, country string) (domain.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	probe := domain.Address{Street: street, ZipCode: zipCode, City: city, Country: country}
	for _, a := range r.s.addresses {
		if sameAddress(a, probe) {
			return a, nil
		}
	}
	return domain.Address{}, domain.ErrNotFound
}

func (r *addressRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Address, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]domain.Address, 0, len(r.s.addresses))
	for _, a := range r.s.addresses {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Country != all[j].Country {
			return all[i].Country < all[j].Country
		}
		if all[i].City != all[j].City {
			return all[i].City < all[j].City
		}
		return all[i].Street < all[j].Street
	})

	return page(all, p), int64(len(all)), nil
}

// sameAddress reports four-field case-sensitive equality, the same rule as
// the SQL unique index.
func sameAddress(a, b domain.Address) bool {
	return a.Street == b.Street &&
		a.ZipCode == b.ZipCode &&
		a.City == b.City &&
		a.Country == b.Country
}

// page slices one pagination window out of a sorted result set.
func page[T any](all []T, p domain.PaginationParams) []T {
	start := p.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end:end]
}
