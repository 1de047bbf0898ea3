package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
	"storefront/internal/store"
)

type CartService struct {
	st store.Store
}

func NewCartService(st store.Store) *CartService {
	return &CartService{st: st}
}

// GetCart returns the user's cart with resolved prices and totals,
// creating the cart lazily on first access.
func (s *CartService) GetCart(ctx context.Context, userID int64) (*models.CartView, error) {
	cart, err := s.st.CartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.st.CartLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	view := &models.CartView{CartID: cart.ID, Items: lines, TotalAmount: decimal.Zero}
	if view.Items == nil {
		view.Items = []models.CartLine{}
	}
	for _, l := range lines {
		view.TotalItems += l.Quantity
		view.TotalAmount = view.TotalAmount.Add(l.Subtotal)
	}
	return view, nil
}

// AddItem upserts a cart line: adding the same SKU again increments the
// existing line instead of duplicating it. The requested quantity is
// checked against available stock, but stock is not reserved until
// checkout.
func (s *CartService) AddItem(ctx context.Context, userID int64, req models.AddToCartRequest) (*models.CartLine, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, models.ErrInvalidQuantity
	}

	var line *models.CartLine
	err := s.st.RunTx(ctx, func(tx store.Store) error {
		product, err := tx.ProductByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		available := product.Stock
		if req.VariantID != nil {
			variant, err := tx.VariantByID(ctx, *req.VariantID)
			if err != nil || variant.ProductID != product.ID {
				return models.ErrVariantNotFound
			}
			available = variant.Stock
		}
		if available < quantity {
			return models.InsufficientStockError(product.Name)
		}

		cart, err := tx.CartByUser(ctx, userID)
		if err != nil {
			return err
		}

		existing, err := tx.FindCartLine(ctx, cart.ID, req.ProductID, req.VariantID)
		switch {
		case err == nil:
			newQuantity := existing.Quantity + quantity
			if newQuantity > available {
				return models.InsufficientStockError(product.Name)
			}
			if err := tx.UpdateCartLineQuantity(ctx, existing.ID, newQuantity); err != nil {
				return err
			}
			line, err = tx.CartLineForUser(ctx, existing.ID, userID)
			return err
		case errors.Is(err, models.ErrCartItemNotFound):
			created := &models.CartLine{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				VariantID: req.VariantID,
				Quantity:  quantity,
			}
			if err := tx.CreateCartLine(ctx, created); err != nil {
				return err
			}
			line, err = tx.CartLineForUser(ctx, created.ID, userID)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateLine sets a line's quantity. Zero removes the line; the returned
// line is nil in that case.
func (s *CartService) UpdateLine(ctx context.Context, userID, lineID int64, quantity int) (*models.CartLine, error) {
	if quantity < 0 {
		return nil, models.ErrInvalidQuantity
	}

	line, err := s.st.CartLineForUser(ctx, lineID, userID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		return nil, s.st.DeleteCartLine(ctx, lineID)
	}
	if quantity > line.Stock {
		return nil, models.InsufficientStockError(line.ProductName)
	}
	if err := s.st.UpdateCartLineQuantity(ctx, lineID, quantity); err != nil {
		return nil, err
	}
	return s.st.CartLineForUser(ctx, lineID, userID)
}

func (s *CartService) RemoveLine(ctx context.Context, userID, lineID int64) error {
	if _, err := s.st.CartLineForUser(ctx, lineID, userID); err != nil {
		return err
	}
	return s.st.DeleteCartLine(ctx, lineID)
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	cart, err := s.st.CartByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.st.ClearCart(ctx, cart.ID)
}

// checkoutSnapshot captures the cart for checkout: one line per SKU with
// the unit price resolved at this moment. Runs against whatever store view
// it is given, so the order transaction can call it on its tx.
func checkoutSnapshot(ctx context.Context, st store.Store, userID int64) (int64, []models.CheckoutLine, error) {
	cart, err := st.CartByUser(ctx, userID)
	if err != nil {
		return 0, nil, err
	}

	lines, err := st.CartLines(ctx, cart.ID)
	if err != nil {
		return 0, nil, err
	}
	if len(lines) == 0 {
		return 0, nil, models.ErrEmptyCart
	}

	out := make([]models.CheckoutLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.CheckoutLine{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return cart.ID, out, nil
}

// CheckoutSnapshot exposes the snapshot read outside a transaction.
func (s *CartService) CheckoutSnapshot(ctx context.Context, userID int64) ([]models.CheckoutLine, error) {
	_, lines, err := checkoutSnapshot(ctx, s.st, userID)
	return lines, err
}
