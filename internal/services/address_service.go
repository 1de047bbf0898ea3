package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/store"
)

type AddressService struct {
	st store.Store
}

func NewAddressService(st store.Store) *AddressService {
	return &AddressService{st: st}
}

func (s *AddressService) List(ctx context.Context, userID int64) ([]models.Address, error) {
	addresses, err := s.st.Addresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return addresses, nil
}

func (s *AddressService) Get(ctx context.Context, userID, id int64) (*models.Address, error) {
	address, err := s.st.AddressByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, models.ErrAddressNotFound
	}
	return address, nil
}

// Create inserts an address. The user's first address always becomes the
// default; an explicit default displaces the previous one.
func (s *AddressService) Create(ctx context.Context, userID int64, req models.CreateAddressRequest) (*models.Address, error) {
	address := &models.Address{
		UserID:     userID,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}

	err := s.st.RunTx(ctx, func(tx store.Store) error {
		count, err := tx.CountAddresses(ctx, userID)
		if err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		} else if address.IsDefault {
			if err := tx.ClearDefaultAddresses(ctx, userID); err != nil {
				return err
			}
		}
		return tx.CreateAddress(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id int64, req models.UpdateAddressRequest) (*models.Address, error) {
	var address *models.Address
	err := s.st.RunTx(ctx, func(tx store.Store) error {
		var err error
		address, err = tx.AddressByID(ctx, id)
		if err != nil {
			return err
		}
		if address.UserID != userID {
			return models.ErrAddressNotFound
		}

		if req.Street != nil {
			address.Street = *req.Street
		}
		if req.City != nil {
			address.City = *req.City
		}
		if req.State != nil {
			address.State = *req.State
		}
		if req.PostalCode != nil {
			address.PostalCode = *req.PostalCode
		}
		if req.Country != nil {
			address.Country = *req.Country
		}
		if req.IsDefault != nil {
			if *req.IsDefault && !address.IsDefault {
				if err := tx.ClearDefaultAddresses(ctx, userID); err != nil {
					return err
				}
			}
			address.IsDefault = *req.IsDefault
		}
		return tx.UpdateAddress(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Delete removes an address; deleting the default promotes the newest
// remaining address.
func (s *AddressService) Delete(ctx context.Context, userID, id int64) error {
	return s.st.RunTx(ctx, func(tx store.Store) error {
		address, err := tx.AddressByID(ctx, id)
		if err != nil {
			return err
		}
		if address.UserID != userID {
			return models.ErrAddressNotFound
		}
		if err := tx.DeleteAddress(ctx, id); err != nil {
			return err
		}
		if !address.IsDefault {
			return nil
		}
		remaining, err := tx.Addresses(ctx, userID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		promoted := remaining[0]
		promoted.IsDefault = true
		return tx.UpdateAddress(ctx, &promoted)
	})
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id int64) (*models.Address, error) {
	var address *models.Address
	err := s.st.RunTx(ctx, func(tx store.Store) error {
		var err error
		address, err = tx.AddressByID(ctx, id)
		if err != nil {
			return err
		}
		if address.UserID != userID {
			return models.ErrAddressNotFound
		}
		if err := tx.ClearDefaultAddresses(ctx, userID); err != nil {
			return err
		}
		address.IsDefault = true
		return tx.UpdateAddress(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}
