package memory

import (
	"context"
	"sort"

	"storefront/internal/models"
)

func (s *Store) Addresses(_ context.Context, userID int64) ([]models.Address, error) {
	defer s.lock()()
	var out []models.Address
	for _, a := range s.data.addresses {
		if a.UserID == userID {
			out = append(out, a)
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

func (s *Store) AddressByID(_ context.Context, id int64) (*models.Address, error) {
	defer s.lock()()
	a, ok := s.data.addresses[id]
	if !ok {
		return nil, models.ErrAddressNotFound
	}
	return &a, nil
}

func (s *Store) CreateAddress(_ context.Context, a *models.Address) error {
	defer s.lock()()
	a.ID = s.data.nextID()
	a.CreatedAt = now()
	s.data.addresses[a.ID] = *a
	return nil
}

func (s *Store) UpdateAddress(_ context.Context, a *models.Address) error {
	defer s.lock()()
	if _, ok := s.data.addresses[a.ID]; !ok {
		return models.ErrAddressNotFound
	}
	s.data.addresses[a.ID] = *a
	return nil
}

func (s *Store) DeleteAddress(_ context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.addresses[id]; !ok {
		return models.ErrAddressNotFound
	}
	delete(s.data.addresses, id)
	return nil
}

func (s *Store) ClearDefaultAddresses(_ context.Context, userID int64) error {
	defer s.lock()()
	for id, a := range s.data.addresses {
		if a.UserID == userID && a.IsDefault {
			a.IsDefault = false
			s.data.addresses[id] = a
		}
	}
	return nil
}

func (s *Store) CountAddresses(_ context.Context, userID int64) (int, error) {
	defer s.lock()()
	n := 0
	for _, a := range s.data.addresses {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}
