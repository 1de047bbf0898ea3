package services

import (
	"context"
	"errors"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"

	"storefront/internal/models"
	"storefront/internal/store"
)

var paymentsProcessedTotal = metrics.GetOrCreateCounter(`payments_processed_total`)

type PaymentService struct {
	st store.Store
}

func NewPaymentService(st store.Store) *PaymentService {
	return &PaymentService{st: st}
}

// --- payment methods ---

func (s *PaymentService) ListMethods(ctx context.Context, userID int64) ([]models.PaymentMethod, error) {
	methods, err := s.st.PaymentMethods(ctx, userID)
	if err != nil {
		return nil, err
	}
	if methods == nil {
		methods = []models.PaymentMethod{}
	}
	return methods, nil
}

func (s *PaymentService) GetMethod(ctx context.Context, userID, id int64) (*models.PaymentMethod, error) {
	method, err := s.st.PaymentMethodByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if method.UserID != userID {
		return nil, models.ErrPaymentMethodNotFound
	}
	return method, nil
}

func (s *PaymentService) CreateMethod(ctx context.Context, userID int64, req models.CreatePaymentMethodRequest) (*models.PaymentMethod, error) {
	if !models.ValidPaymentMethodType(req.Type) {
		return nil, models.ValidationError("unknown payment method type " + req.Type)
	}
	method := &models.PaymentMethod{
		UserID:        userID,
		Type:          req.Type,
		Provider:      req.Provider,
		AccountNumber: req.AccountNumber,
		IsDefault:     req.IsDefault,
	}

	err := s.st.RunTx(ctx, func(tx store.Store) error {
		count, err := tx.CountPaymentMethods(ctx, userID)
		if err != nil {
			return err
		}
		if count == 0 {
			method.IsDefault = true
		} else if method.IsDefault {
			if err := tx.ClearDefaultPaymentMethods(ctx, userID); err != nil {
				return err
			}
		}
		return tx.CreatePaymentMethod(ctx, method)
	})
	if err != nil {
		return nil, err
	}
	return method, nil
}

func (s *PaymentService) UpdateMethod(ctx context.Context, userID, id int64, req models.UpdatePaymentMethodRequest) (*models.PaymentMethod, error) {
	var method *models.PaymentMethod
	err := s.st.RunTx(ctx, func(tx store.Store) error {
		var err error
		method, err = tx.PaymentMethodByID(ctx, id)
		if err != nil {
			return err
		}
		if method.UserID != userID {
			return models.ErrPaymentMethodNotFound
		}

		if req.Type != nil {
			if !models.ValidPaymentMethodType(*req.Type) {
				return models.ValidationError("unknown payment method type " + *req.Type)
			}
			method.Type = *req.Type
		}
		if req.Provider != nil {
			method.Provider = *req.Provider
		}
		if req.AccountNumber != nil {
			method.AccountNumber = *req.AccountNumber
		}
		if req.IsDefault != nil {
			if *req.IsDefault && !method.IsDefault {
				if err := tx.ClearDefaultPaymentMethods(ctx, userID); err != nil {
					return err
				}
			}
			method.IsDefault = *req.IsDefault
		}
		return tx.UpdatePaymentMethod(ctx, method)
	})
	if err != nil {
		return nil, err
	}
	return method, nil
}

// DeleteMethod removes a payment method; deleting the default promotes the
// newest remaining one.
func (s *PaymentService) DeleteMethod(ctx context.Context, userID, id int64) error {
	return s.st.RunTx(ctx, func(tx store.Store) error {
		method, err := tx.PaymentMethodByID(ctx, id)
		if err != nil {
			return err
		}
		if method.UserID != userID {
			return models.ErrPaymentMethodNotFound
		}
		if err := tx.DeletePaymentMethod(ctx, id); err != nil {
			return err
		}
		if !method.IsDefault {
			return nil
		}
		remaining, err := tx.PaymentMethods(ctx, userID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		promoted := remaining[0]
		promoted.IsDefault = true
		return tx.UpdatePaymentMethod(ctx, &promoted)
	})
}

// --- payments ---

func (s *PaymentService) List(ctx context.Context, actor models.Actor, f store.PaymentFilter) ([]models.Payment, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, models.ValidationError("unknown payment status " + string(f.Status))
	}
	if !actor.IsAdmin() {
		f.UserID = &actor.UserID
	}
	payments, total, err := s.st.Payments(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, total, nil
}

func (s *PaymentService) Get(ctx context.Context, actor models.Actor, id int64) (*models.Payment, error) {
	payment, err := s.st.PaymentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		order, err := s.st.OrderByID(ctx, payment.OrderID)
		if err != nil {
			return nil, err
		}
		if order.UserID != actor.UserID {
			return nil, models.ErrPaymentNotFound
		}
	}
	return payment, nil
}

// Process settles the payment for a pending order: the payment record flips
// to completed with a fresh reference and the order moves to paid, in one
// transaction.
func (s *PaymentService) Process(ctx context.Context, userID int64, req models.ProcessPaymentRequest) (*models.Payment, error) {
	var payment *models.Payment
	err := s.st.RunTx(ctx, func(tx store.Store) error {
		order, err := tx.OrderByID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return models.ErrOrderNotFound
		}
		if order.Status != models.OrderStatusPending {
			return models.InvalidStatusError("order is not awaiting payment")
		}

		methodID := req.PaymentMethodID
		if methodID != nil {
			method, err := tx.PaymentMethodByID(ctx, *methodID)
			if err != nil {
				return err
			}
			if method.UserID != userID {
				return models.ErrPaymentMethodNotFound
			}
		}

		payment, err = tx.PaymentByOrder(ctx, order.ID)
		switch {
		case err == nil:
			payment.Status = models.PaymentStatusCompleted
			payment.Reference = uuid.NewString()
			if methodID != nil {
				payment.PaymentMethodID = methodID
			}
			if err := tx.UpdatePayment(ctx, payment); err != nil {
				return err
			}
		case errors.Is(err, models.ErrPaymentNotFound):
			payment = &models.Payment{
				OrderID:         order.ID,
				PaymentMethodID: methodID,
				Amount:          order.TotalAmount,
				Status:          models.PaymentStatusCompleted,
				Reference:       uuid.NewString(),
			}
			if err := tx.CreatePayment(ctx, payment); err != nil {
				return err
			}
		default:
			return err
		}

		return tx.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid)
	})
	if err != nil {
		return nil, err
	}
	paymentsProcessedTotal.Inc()
	return payment, nil
}

// UpdateStatus lets an admin correct a payment record.
func (s *PaymentService) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) (*models.Payment, error) {
	if !status.Valid() {
		return nil, models.ValidationError("unknown payment status " + string(status))
	}
	var payment *models.Payment
	err := s.st.RunTx(ctx, func(tx store.Store) error {
		var err error
		payment, err = tx.PaymentByID(ctx, id)
		if err != nil {
			return err
		}
		payment.Status = status
		return tx.UpdatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
