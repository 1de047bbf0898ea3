package memory

import (
	"context"
	"sort"

	"storefront/internal/models"
)

func (s *Store) UserByID(_ context.Context, id int64) (*models.User, error) {
	defer s.lock()()
	u, ok := s.data.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) UpdateUser(_ context.Context, u *models.User) error {
	defer s.lock()()
	cur, ok := s.data.users[u.ID]
	if !ok {
		return models.ErrUserNotFound
	}
	cur.Email = u.Email
	cur.FirstName = u.FirstName
	cur.LastName = u.LastName
	cur.UpdatedAt = now()
	s.data.users[u.ID] = cur
	*u = cur
	return nil
}

func (s *Store) Users(_ context.Context, page, limit int) ([]models.User, int, error) {
	defer s.lock()()
	out := make([]models.User, 0, len(s.data.users))
	for _, u := range s.data.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, page, limit), len(out), nil
}

// SeedUser registers a user directly; used by dev mode and tests, where no
// registration flow exists (authentication is an external collaborator).
func (s *Store) SeedUser(u models.User) models.User {
	defer s.lock()()
	if u.ID == 0 {
		u.ID = s.data.nextID()
	} else if u.ID > s.data.lastID {
		s.data.lastID = u.ID
	}
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	s.data.users[u.ID] = u
	return u
}
