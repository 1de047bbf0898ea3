package memory

import (
	"context"
	"sort"

	"storefront/internal/models"
	"storefront/internal/store"
)

func (s *Store) CreateOrder(_ context.Context, o *models.Order) error {
	defer s.lock()()
	o.ID = s.data.nextID()
	o.CreatedAt = now()
	o.UpdatedAt = o.CreatedAt
	stored := *o
	stored.Items = nil
	stored.Address = nil
	stored.Payment = nil
	s.data.orders[o.ID] = stored
	return nil
}

func (s *Store) CreateOrderItems(_ context.Context, orderID int64, items []models.OrderItem) error {
	defer s.lock()()
	if _, ok := s.data.orders[orderID]; !ok {
		return models.ErrOrderNotFound
	}
	for i := range items {
		items[i].ID = s.data.nextID()
		items[i].OrderID = orderID
		stored := items[i]
		stored.ProductName = ""
		s.data.orderItems[orderID] = append(s.data.orderItems[orderID], stored)
	}
	return nil
}

func (s *Store) OrderByID(_ context.Context, id int64) (*models.Order, error) {
	defer s.lock()()
	o, ok := s.data.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	return &o, nil
}

func (s *Store) OrderItems(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	defer s.lock()()
	items := append([]models.OrderItem(nil), s.data.orderItems[orderID]...)
	for i := range items {
		if p, ok := s.data.products[items[i].ProductID]; ok {
			items[i].ProductName = p.Name
		}
	}
	return items, nil
}

func (s *Store) Orders(_ context.Context, f store.OrderFilter) ([]models.Order, int, error) {
	defer s.lock()()
	var out []models.Order
	for _, o := range s.data.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Page, f.Limit), len(out), nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id int64, status models.OrderStatus) error {
	defer s.lock()()
	o, ok := s.data.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = now()
	s.data.orders[id] = o
	return nil
}

func (s *Store) DeleteOrder(_ context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.orders[id]; !ok {
		return models.ErrOrderNotFound
	}
	delete(s.data.orders, id)
	delete(s.data.orderItems, id)
	if pid, ok := s.data.paymentByOrder[id]; ok {
		delete(s.data.payments, pid)
		delete(s.data.paymentByOrder, id)
	}
	return nil
}
