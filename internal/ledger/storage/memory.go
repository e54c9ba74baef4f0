package storage

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/gaqzi/review-ledger/internal/ledger"
)

// table holds records keyed by an ID that's handed out in increasing order,
// so sorting the keys gives back the order the records were stored in.
type table[T any] struct {
	mu        sync.RWMutex
	data      map[int64]T
	currentID int64
}

func newTable[T any]() *table[T] {
	return &table[T]{data: make(map[int64]T)}
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.data[id]
	return v, ok
}

// save stores v, calling assign with a new ID when id is 0.
// An id that isn't stored yet is reported as not found and nothing is saved.
func (t *table[T]) save(id int64, v T, assign func(*T, int64)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id == 0 {
		t.currentID++
		assign(&v, t.currentID)
		id = t.currentID
	} else if _, ok := t.data[id]; !ok {
		return v, false
	}

	t.data[id] = v

	return v, true
}

func (t *table[T]) all(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ret := make([]T, 0, len(t.data))
	for _, id := range slices.Sorted(maps.Keys(t.data)) {
		if v := t.data[id]; keep == nil || keep(v) {
			ret = append(ret, v)
		}
	}

	return ret
}

type CustomerMemoryStore struct {
	t *table[ledger.Customer]
}

func NewCustomerMemoryStore() *CustomerMemoryStore {
	return &CustomerMemoryStore{t: newTable[ledger.Customer]()}
}

func (s *CustomerMemoryStore) Get(_ context.Context, id int64) (ledger.Customer, error) {
	c, ok := s.t.get(id)
	if !ok {
		return ledger.Customer{}, &ledger.NotFoundError{Kind: ledger.KindCustomer, ID: id}
	}

	return c, nil
}

func (s *CustomerMemoryStore) Save(_ context.Context, c ledger.Customer) (ledger.Customer, error) {
	saved, ok := s.t.save(c.ID, c, func(c *ledger.Customer, id int64) { c.ID = id })
	if !ok {
		return ledger.Customer{}, &ledger.NotFoundError{Kind: ledger.KindCustomer, ID: c.ID}
	}

	return saved, nil
}

func (s *CustomerMemoryStore) All(_ context.Context) ([]ledger.Customer, error) {
	return s.t.all(nil), nil
}

type RestaurantMemoryStore struct {
	t *table[ledger.Restaurant]
}

func NewRestaurantMemoryStore() *RestaurantMemoryStore {
	return &RestaurantMemoryStore{t: newTable[ledger.Restaurant]()}
}

func (s *RestaurantMemoryStore) Get(_ context.Context, id int64) (ledger.Restaurant, error) {
	r, ok := s.t.get(id)
	if !ok {
		return ledger.Restaurant{}, &ledger.NotFoundError{Kind: ledger.KindRestaurant, ID: id}
	}

	return r, nil
}

func (s *RestaurantMemoryStore) Save(_ context.Context, r ledger.Restaurant) (ledger.Restaurant, error) {
	saved, ok := s.t.save(r.ID, r, func(r *ledger.Restaurant, id int64) { r.ID = id })
	if !ok {
		return ledger.Restaurant{}, &ledger.NotFoundError{Kind: ledger.KindRestaurant, ID: r.ID}
	}

	return saved, nil
}

func (s *RestaurantMemoryStore) All(_ context.Context) ([]ledger.Restaurant, error) {
	return s.t.all(nil), nil
}

func (s *RestaurantMemoryStore) Fanciest(_ context.Context) (ledger.Restaurant, bool, error) {
	all := s.t.all(nil)
	if len(all) == 0 {
		return ledger.Restaurant{}, false, nil
	}

	fanciest := all[0]
	for _, r := range all[1:] {
		if r.Price > fanciest.Price {
			fanciest = r
		}
	}

	return fanciest, true, nil
}

// ReviewMemoryStore keeps reviews and checks that the customer and restaurant
// of a new review exist in the stores it was created with.
type ReviewMemoryStore struct {
	t           *table[ledger.Review]
	customers   *CustomerMemoryStore
	restaurants *RestaurantMemoryStore
}

func NewReviewMemoryStore(customers *CustomerMemoryStore, restaurants *RestaurantMemoryStore) *ReviewMemoryStore {
	return &ReviewMemoryStore{
		t:           newTable[ledger.Review](),
		customers:   customers,
		restaurants: restaurants,
	}
}

func (s *ReviewMemoryStore) Get(_ context.Context, id int64) (ledger.Review, error) {
	r, ok := s.t.get(id)
	if !ok {
		return ledger.Review{}, &ledger.NotFoundError{Kind: ledger.KindReview, ID: id}
	}

	return r, nil
}

func (s *ReviewMemoryStore) Add(ctx context.Context, r ledger.Review) (ledger.Review, error) {
	if _, err := s.customers.Get(ctx, r.CustomerID); err != nil {
		return ledger.Review{}, err
	}
	if _, err := s.restaurants.Get(ctx, r.RestaurantID); err != nil {
		return ledger.Review{}, err
	}

	r.ID = 0
	saved, _ := s.t.save(0, r, func(r *ledger.Review, id int64) { r.ID = id })

	return saved, nil
}

func (s *ReviewMemoryStore) DeleteFor(_ context.Context, customerID, restaurantID int64) (int64, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	var n int64
	for id, r := range s.t.data {
		if r.CustomerID == customerID && r.RestaurantID == restaurantID {
			delete(s.t.data, id)
			n++
		}
	}

	return n, nil
}

func (s *ReviewMemoryStore) ByCustomer(_ context.Context, customerID int64) ([]ledger.Review, error) {
	return s.t.all(func(r ledger.Review) bool { return r.CustomerID == customerID }), nil
}

func (s *ReviewMemoryStore) ByRestaurant(_ context.Context, restaurantID int64) ([]ledger.Review, error) {
	return s.t.all(func(r ledger.Review) bool { return r.RestaurantID == restaurantID }), nil
}
