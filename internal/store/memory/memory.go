// Package memory implements store.Store on in-process maps. It backs the
// development mode (no database needed) and the test suite. A transaction
// holds the store lock for its whole extent and restores a snapshot of the
// state on error, so rollback semantics match the postgres store.
package memory

import (
	"context"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"
)

type state struct {
	users          map[int64]models.User
	categories     map[int64]models.Category
	products       map[int64]models.Product
	variants       map[int64]models.Variant
	carts          map[int64]models.Cart
	cartByUser     map[int64]int64
	cartLines      map[int64]models.CartLine
	addresses      map[int64]models.Address
	orders         map[int64]models.Order
	orderItems     map[int64][]models.OrderItem
	paymentMethods map[int64]models.PaymentMethod
	payments       map[int64]models.Payment
	paymentByOrder map[int64]int64
	reviews        map[int64]models.Review
	lastID         int64
}

func newState() *state {
	return &state{
		users:          map[int64]models.User{},
		categories:     map[int64]models.Category{},
		products:       map[int64]models.Product{},
		variants:       map[int64]models.Variant{},
		carts:          map[int64]models.Cart{},
		cartByUser:     map[int64]int64{},
		cartLines:      map[int64]models.CartLine{},
		addresses:      map[int64]models.Address{},
		orders:         map[int64]models.Order{},
		orderItems:     map[int64][]models.OrderItem{},
		paymentMethods: map[int64]models.PaymentMethod{},
		payments:       map[int64]models.Payment{},
		paymentByOrder: map[int64]int64{},
		reviews:        map[int64]models.Review{},
	}
}

func (st *state) clone() *state {
	c := newState()
	c.lastID = st.lastID
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.categories {
		c.categories[k] = v
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.variants {
		c.variants[k] = v
	}
	for k, v := range st.carts {
		c.carts[k] = v
	}
	for k, v := range st.cartByUser {
		c.cartByUser[k] = v
	}
	for k, v := range st.cartLines {
		c.cartLines[k] = v
	}
	for k, v := range st.addresses {
		c.addresses[k] = v
	}
	for k, v := range st.orders {
		c.orders[k] = v
	}
	for k, v := range st.orderItems {
		c.orderItems[k] = append([]models.OrderItem(nil), v...)
	}
	for k, v := range st.paymentMethods {
		c.paymentMethods[k] = v
	}
	for k, v := range st.payments {
		c.payments[k] = v
	}
	for k, v := range st.paymentByOrder {
		c.paymentByOrder[k] = v
	}
	for k, v := range st.reviews {
		c.reviews[k] = v
	}
	return c
}

func (st *state) nextID() int64 {
	st.lastID++
	return st.lastID
}

// Store implements store.Store. The transactional view shares the data but
// carries a nil mutex, since the outer RunTx already holds the lock.
type Store struct {
	mu   *sync.Mutex
	data *state
}

func New() *Store {
	return &Store{mu: &sync.Mutex{}, data: newState()}
}

func (s *Store) lock() func() {
	if s.mu == nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Close() error { return nil }

// RunTx snapshots the state, runs fn under the store lock and restores the
// snapshot if fn fails.
func (s *Store) RunTx(_ context.Context, fn func(tx store.Store) error) error {
	if s.mu == nil {
		// Already inside a transaction.
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&Store{data: s.data}); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func now() time.Time { return time.Now().UTC() }

// paginate applies the (page, limit) window used by every listing.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
