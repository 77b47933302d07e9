// Package memory is an in-process implementation of every repository. It is
// used with STORE_DRIVER=memory and by the usecase and handler tests.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"glowify-backend/internal/domain"
)

type entry[T any] struct {
	seq int64
	val T
}

type state struct {
	seq            int64
	products       map[string]entry[domain.Product]
	coupons        map[string]entry[domain.Coupon]
	orders         map[string]entry[domain.Order]
	cart           map[cartKey]entry[domain.CartItem]
	reviews        map[string]entry[domain.Review]
	customOrders   map[string]entry[domain.CustomOrder]
	imageDeletions map[string]time.Time
	profiles       map[string]domain.Profile
}

type cartKey struct{ userID, productID string }

func newState() state {
	return state{
		products:       map[string]entry[domain.Product]{},
		coupons:        map[string]entry[domain.Coupon]{},
		orders:         map[string]entry[domain.Order]{},
		cart:           map[cartKey]entry[domain.CartItem]{},
		reviews:        map[string]entry[domain.Review]{},
		customOrders:   map[string]entry[domain.CustomOrder]{},
		imageDeletions: map[string]time.Time{},
		profiles:       map[string]domain.Profile{},
	}
}

// clone copies every table. Stored values are never mutated in place, so a
// shallow copy of each map is a full snapshot.
func (s state) clone() state {
	return state{
		seq:            s.seq,
		products:       maps.Clone(s.products),
		coupons:        maps.Clone(s.coupons),
		orders:         maps.Clone(s.orders),
		cart:           maps.Clone(s.cart),
		reviews:        maps.Clone(s.reviews),
		customOrders:   maps.Clone(s.customOrders),
		imageDeletions: maps.Clone(s.imageDeletions),
		profiles:       maps.Clone(s.profiles),
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// Store owns all tables. Transactions are serialized: Do holds txMu for the
// whole callback and restores a snapshot if the callback fails.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   state
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// acquire locks the tables for one repository call. Outside a transaction the
// call also waits for any running transaction to finish.
func (s *Store) acquire(ctx context.Context) func() {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// Do implements domain.TransactionManager.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		rollback()
		return err
	}
	return nil
}

// Repository views.

func (s *Store) Products() domain.ProductRepository         { return &productRepo{s} }
func (s *Store) Coupons() domain.CouponRepository           { return &couponRepo{s} }
func (s *Store) Orders() domain.OrderRepository             { return &orderRepo{s} }
func (s *Store) Cart() domain.CartRepository                { return &cartRepo{s} }
func (s *Store) Reviews() domain.ReviewRepository           { return &reviewRepo{s} }
func (s *Store) CustomOrders() domain.CustomOrderRepository { return &customOrderRepo{s} }
func (s *Store) Stats() domain.StatsRepository              { return &statsRepo{s} }
func (s *Store) Profiles() domain.ProfileRepository         { return &profileRepo{s} }

// newestFirst returns the values of m ordered by descending insertion.
func newestFirst[K comparable, T any](m map[K]entry[T], keep func(T) bool) []T {
	entries := make([]entry[T], 0, len(m))
	for _, e := range m {
		if keep == nil || keep(e.val) {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b entry[T]) int { return cmp.Compare(b.seq, a.seq) })
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.val
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
