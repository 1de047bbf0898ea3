package services

import (
	"context"
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"github.com/shopspring/decimal"

	"storefront/internal/models"
	"storefront/internal/store"
)

var (
	ordersPlacedTotal    = metrics.GetOrCreateCounter("orders_placed_total")
	ordersFailedTotal    = metrics.GetOrCreateCounter("orders_failed_total")
	ordersCancelledTotal = metrics.GetOrCreateCounter("orders_cancelled_total")
)

type OrderService struct {
	st store.Store
}

func NewOrderService(st store.Store) *OrderService {
	return &OrderService{st: st}
}

// PlaceOrder turns the user's cart into an order. The whole sequence —
// address check, cart snapshot, stock validation, order and item inserts,
// stock decrements, optional payment stub, cart clear — runs in a single
// transaction: either the fully-formed order exists or nothing changed.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, req models.PlaceOrderRequest) (*models.PlaceOrderResult, error) {
	var result *models.PlaceOrderResult

	err := s.st.RunTx(ctx, func(tx store.Store) error {
		address, err := tx.AddressByID(ctx, req.AddressID)
		if err != nil {
			return err
		}
		if address.UserID != userID {
			return models.ErrAddressNotFound
		}

		cartID, lines, err := checkoutSnapshot(ctx, tx, userID)
		if err != nil {
			return err
		}

		// Stock reads lock their rows, so concurrent checkouts against
		// the same SKU serialize here.
		total := decimal.Zero
		for _, l := range lines {
			available, err := tx.AvailableStock(ctx, l.ProductID, l.VariantID)
			if err != nil {
				return err
			}
			if available < l.Quantity {
				return models.InsufficientStockError(l.ProductName)
			}
			total = total.Add(l.Subtotal())
		}

		order := &models.Order{
			UserID:      userID,
			AddressID:   req.AddressID,
			Status:      models.OrderStatusPending,
			TotalAmount: total,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{
				ProductID:       l.ProductID,
				VariantID:       l.VariantID,
				Quantity:        l.Quantity,
				PriceAtPurchase: l.UnitPrice,
				ProductName:     l.ProductName,
			})
		}
		if err := tx.CreateOrderItems(ctx, order.ID, items); err != nil {
			return err
		}

		for _, l := range lines {
			if err := tx.ApplyStockDelta(ctx, l.ProductID, l.VariantID, -l.Quantity); err != nil {
				return err
			}
		}

		if req.PaymentMethodID != nil {
			method, err := tx.PaymentMethodByID(ctx, *req.PaymentMethodID)
			if err != nil {
				return err
			}
			if method.UserID != userID {
				return models.ErrPaymentMethodNotFound
			}
			payment := &models.Payment{
				OrderID:         order.ID,
				PaymentMethodID: req.PaymentMethodID,
				Amount:          total,
				Status:          models.PaymentStatusPending,
			}
			if err := tx.CreatePayment(ctx, payment); err != nil {
				return err
			}
			order.Payment = payment
		}

		if err := tx.ClearCart(ctx, cartID); err != nil {
			return err
		}

		order.Items = items
		result = &models.PlaceOrderResult{Order: order, ItemsCount: len(items)}
		return nil
	})
	if err != nil {
		ordersFailedTotal.Inc()
		return nil, err
	}

	ordersPlacedTotal.Inc()
	return result, nil
}

// Get returns the order with items, address and payment attached. Only
// the owner or an admin may read it.
func (s *OrderService) Get(ctx context.Context, actor models.Actor, orderID int64) (*models.Order, error) {
	order, err := s.st.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, models.ErrForbidden
	}

	if order.Items, err = s.st.OrderItems(ctx, orderID); err != nil {
		return nil, err
	}
	if order.Address, err = s.st.AddressByID(ctx, order.AddressID); err != nil {
		// The address row can be gone after an account cleanup; the
		// order itself is still readable.
		if err != models.ErrAddressNotFound {
			return nil, err
		}
		order.Address = nil
	}
	payment, err := s.st.PaymentByOrder(ctx, orderID)
	switch err {
	case nil:
		order.Payment = payment
	case models.ErrPaymentNotFound:
	default:
		return nil, err
	}
	return order, nil
}

// Items returns an order's line items, with the same access rule as Get.
func (s *OrderService) Items(ctx context.Context, actor models.Actor, orderID int64) ([]models.OrderItem, error) {
	order, err := s.st.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, models.ErrForbidden
	}
	return s.st.OrderItems(ctx, orderID)
}

// List returns orders. Non-admin callers only ever see their own.
func (s *OrderService) List(ctx context.Context, actor models.Actor, f store.OrderFilter) ([]models.Order, int, error) {
	if !actor.IsAdmin() {
		f.UserID = &actor.UserID
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, models.InvalidStatusError(fmt.Sprintf("unknown order status %q", f.Status))
	}
	orders, total, err := s.st.Orders(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, total, nil
}

// Cancel moves an order into cancelled, restoring stock for every line
// and refunding an attached payment. The restoration runs exactly once:
// a cancelled (or delivered) order cannot be cancelled again.
func (s *OrderService) Cancel(ctx context.Context, actor models.Actor, orderID int64) (*models.Order, error) {
	var cancelled *models.Order

	err := s.st.RunTx(ctx, func(tx store.Store) error {
		order, err := tx.OrderByID(ctx, orderID)
		if err != nil {
			return err
		}

		if !actor.IsAdmin() {
			if order.UserID != actor.UserID {
				return models.ErrForbidden
			}
			if order.Status.Terminal() {
				return models.InvalidStatusError(fmt.Sprintf("order is already %s", order.Status))
			}
			// Owners may only cancel before the order is paid.
			if order.Status != models.OrderStatusPending {
				return models.ErrForbidden
			}
		} else if order.Status.Terminal() {
			return models.InvalidStatusError(fmt.Sprintf("order is already %s", order.Status))
		}

		items, err := tx.OrderItems(ctx, orderID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.ApplyStockDelta(ctx, it.ProductID, it.VariantID, it.Quantity); err != nil {
				return err
			}
		}

		payment, err := tx.PaymentByOrder(ctx, orderID)
		switch err {
		case nil:
			payment.Status = models.PaymentStatusRefunded
			if err := tx.UpdatePayment(ctx, payment); err != nil {
				return err
			}
		case models.ErrPaymentNotFound:
		default:
			return err
		}

		if err := tx.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
			return err
		}

		cancelled, err = tx.OrderByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ordersCancelledTotal.Inc()
	return cancelled, nil
}

// SetStatus applies an admin status update. Transitions follow the chain
// pending -> paid -> processing -> shipped -> delivered; cancellation goes
// through Cancel so its side effects apply.
func (s *OrderService) SetStatus(ctx context.Context, actor models.Actor, orderID int64, status string) (*models.Order, error) {
	next := models.OrderStatus(status)
	if !next.Valid() {
		return nil, models.InvalidStatusError(fmt.Sprintf("unknown order status %q", status))
	}
	if next == models.OrderStatusCancelled {
		return s.Cancel(ctx, actor, orderID)
	}
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}

	var updated *models.Order
	err := s.st.RunTx(ctx, func(tx store.Store) error {
		order, err := tx.OrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransition(next) {
			return models.InvalidStatusError(fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
		}
		if err := tx.UpdateOrderStatus(ctx, orderID, next); err != nil {
			return err
		}
		updated, err = tx.OrderByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete hard-deletes an order and its items. Admin only, and only for
// cancelled orders.
func (s *OrderService) Delete(ctx context.Context, actor models.Actor, orderID int64) error {
	if !actor.IsAdmin() {
		return models.ErrForbidden
	}
	order, err := s.st.OrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusCancelled {
		return models.ValidationError("only cancelled orders can be deleted")
	}
	return s.st.DeleteOrder(ctx, orderID)
}
