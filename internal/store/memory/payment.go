package memory

import (
	"context"
	"sort"

	"storefront/internal/models"
	"storefront/internal/store"
)

func (s *Store) PaymentMethods(_ context.Context, userID int64) ([]models.PaymentMethod, error) {
	defer s.lock()()
	var out []models.PaymentMethod
	for _, m := range s.data.paymentMethods {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) PaymentMethodByID(_ context.Context, id int64) (*models.PaymentMethod, error) {
	defer s.lock()()
	m, ok := s.data.paymentMethods[id]
	if !ok {
		return nil, models.ErrPaymentMethodNotFound
	}
	return &m, nil
}

func (s *Store) CreatePaymentMethod(_ context.Context, m *models.PaymentMethod) error {
	defer s.lock()()
	m.ID = s.data.nextID()
	m.CreatedAt = now()
	s.data.paymentMethods[m.ID] = *m
	return nil
}

func (s *Store) UpdatePaymentMethod(_ context.Context, m *models.PaymentMethod) error {
	defer s.lock()()
	if _, ok := s.data.paymentMethods[m.ID]; !ok {
		return models.ErrPaymentMethodNotFound
	}
	s.data.paymentMethods[m.ID] = *m
	return nil
}

func (s *Store) DeletePaymentMethod(_ context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.paymentMethods[id]; !ok {
		return models.ErrPaymentMethodNotFound
	}
	delete(s.data.paymentMethods, id)
	return nil
}

func (s *Store) ClearDefaultPaymentMethods(_ context.Context, userID int64) error {
	defer s.lock()()
	for id, m := range s.data.paymentMethods {
		if m.UserID == userID && m.IsDefault {
			m.IsDefault = false
			s.data.paymentMethods[id] = m
		}
	}
	return nil
}

func (s *Store) CountPaymentMethods(_ context.Context, userID int64) (int, error) {
	defer s.lock()()
	n := 0
	for _, m := range s.data.paymentMethods {
		if m.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreatePayment(_ context.Context, p *models.Payment) error {
	defer s.lock()()
	p.ID = s.data.nextID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	s.data.payments[p.ID] = *p
	s.data.paymentByOrder[p.OrderID] = p.ID
	return nil
}

func (s *Store) PaymentByID(_ context.Context, id int64) (*models.Payment, error) {
	defer s.lock()()
	p, ok := s.data.payments[id]
	if !ok {
		return nil, models.ErrPaymentNotFound
	}
	return &p, nil
}

func (s *Store) PaymentByOrder(_ context.Context, orderID int64) (*models.Payment, error) {
	defer s.lock()()
	id, ok := s.data.paymentByOrder[orderID]
	if !ok {
		return nil, models.ErrPaymentNotFound
	}
	p := s.data.payments[id]
	return &p, nil
}

func (s *Store) Payments(_ context.Context, f store.PaymentFilter) ([]models.Payment, int, error) {
	defer s.lock()()
	var out []models.Payment
	for _, p := range s.data.payments {
		if f.UserID != nil {
			o, ok := s.data.orders[p.OrderID]
			if !ok || o.UserID != *f.UserID {
				continue
			}
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Page, f.Limit), len(out), nil
}

func (s *Store) UpdatePayment(_ context.Context, p *models.Payment) error {
	defer s.lock()()
	cur, ok := s.data.payments[p.ID]
	if !ok {
		return models.ErrPaymentNotFound
	}
	cur.PaymentMethodID = p.PaymentMethodID
	cur.Status = p.Status
	cur.Reference = p.Reference
	cur.UpdatedAt = now()
	s.data.payments[p.ID] = cur
	*p = cur
	return nil
}
