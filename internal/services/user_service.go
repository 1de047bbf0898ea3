package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/store"
)

type UserService struct {
	st store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{st: st}
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.st.UserByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.st.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if err := s.st.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List is admin-only; handlers enforce the role.
func (s *UserService) List(ctx context.Context, page, limit int) ([]models.User, int, error) {
	users, total, err := s.st.Users(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, total, nil
}
