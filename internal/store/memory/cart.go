package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

func (s *Store) CartByUser(_ context.Context, userID int64) (*models.Cart, error) {
	defer s.lock()()
	if id, ok := s.data.cartByUser[userID]; ok {
		c := s.data.carts[id]
		return &c, nil
	}
	c := models.Cart{ID: s.data.nextID(), UserID: userID, CreatedAt: now()}
	s.data.carts[c.ID] = c
	s.data.cartByUser[userID] = c.ID
	return &c, nil
}

// resolve fills the joined product/variant fields the way the postgres
// cart query does.
func (s *Store) resolveCartLine(l models.CartLine) models.CartLine {
	p, ok := s.data.products[l.ProductID]
	if !ok {
		return l
	}
	l.ProductName = p.Name
	price := p.BasePrice
	stock := p.Stock
	if l.VariantID != nil {
		if v, ok := s.data.variants[*l.VariantID]; ok {
			l.VariantName = v.Name
			price = price.Add(v.PriceModifier)
			stock = v.Stock
		}
	}
	l.UnitPrice = price
	l.Subtotal = price.Mul(decimal.NewFromInt(int64(l.Quantity)))
	l.Stock = stock
	return l
}

func (s *Store) CartLines(_ context.Context, cartID int64) ([]models.CartLine, error) {
	defer s.lock()()
	var out []models.CartLine
	for _, l := range s.data.cartLines {
		if l.CartID == cartID {
			out = append(out, s.resolveCartLine(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CartLineForUser(_ context.Context, lineID, userID int64) (*models.CartLine, error) {
	defer s.lock()()
	l, ok := s.data.cartLines[lineID]
	if !ok {
		return nil, models.ErrCartItemNotFound
	}
	cart, ok := s.data.carts[l.CartID]
	if !ok || cart.UserID != userID {
		return nil, models.ErrCartItemNotFound
	}
	resolved := s.resolveCartLine(l)
	return &resolved, nil
}

func (s *Store) FindCartLine(_ context.Context, cartID, productID int64, variantID *int64) (*models.CartLine, error) {
	defer s.lock()()
	for _, l := range s.data.cartLines {
		if l.CartID != cartID || l.ProductID != productID {
			continue
		}
		if (l.VariantID == nil) != (variantID == nil) {
			continue
		}
		if l.VariantID != nil && *l.VariantID != *variantID {
			continue
		}
		resolved := s.resolveCartLine(l)
		return &resolved, nil
	}
	return nil, models.ErrCartItemNotFound
}

func (s *Store) CreateCartLine(_ context.Context, l *models.CartLine) error {
	defer s.lock()()
	l.ID = s.data.nextID()
	l.AddedAt = now()
	s.data.cartLines[l.ID] = models.CartLine{
		ID:        l.ID,
		CartID:    l.CartID,
		ProductID: l.ProductID,
		VariantID: l.VariantID,
		Quantity:  l.Quantity,
		AddedAt:   l.AddedAt,
	}
	return nil
}

func (s *Store) UpdateCartLineQuantity(_ context.Context, lineID int64, quantity int) error {
	defer s.lock()()
	l, ok := s.data.cartLines[lineID]
	if !ok {
		return models.ErrCartItemNotFound
	}
	l.Quantity = quantity
	s.data.cartLines[lineID] = l
	return nil
}

func (s *Store) DeleteCartLine(_ context.Context, lineID int64) error {
	defer s.lock()()
	if _, ok := s.data.cartLines[lineID]; !ok {
		return models.ErrCartItemNotFound
	}
	delete(s.data.cartLines, lineID)
	return nil
}

func (s *Store) ClearCart(_ context.Context, cartID int64) error {
	defer s.lock()()
	for id, l := range s.data.cartLines {
		if l.CartID == cartID {
			delete(s.data.cartLines, id)
		}
	}
	return nil
}
