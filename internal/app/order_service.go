package app

import (
	"context"

	"github.com/aiaxcartpremium/aiaxshop/internal/clock"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error)
	// UpdateOrderStatus applies the transition only when the current status
	// is one of from. Transitions out of a terminal state fail with
	// ErrOrderAlreadyFinalized; re-applying the target status is a no-op.
	UpdateOrderStatus(ctx context.Context, orderID string, to domain.OrderStatus, from ...domain.OrderStatus) error
}

// OrderService owns the order lifecycle up to (but not including)
// fulfillment.
type OrderService struct {
	repo  OrderRepository
	clock clock.Clock
}

func NewOrderService(repo OrderRepository, clk clock.Clock) *OrderService {
	return &OrderService{
		repo:  repo,
		clock: clk,
	}
}

type PlaceOrderInput struct {
	Buyer       string
	ProductID   string
	AccountType string
	Duration    string
	Price       decimal.Decimal
	Payment     domain.Payment
}

// Place creates a pending order with a price snapshot. AccountType and
// Duration may be empty; fulfillment then matches any available unit of
// the product.
func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput) (domain.Order, error) {
	if in.Buyer == "" {
		return domain.Order{}, domain.ErrBuyerRequired
	}
	if in.ProductID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	if !in.Price.IsPositive() {
		return domain.Order{}, domain.ErrInvalidPrice
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		Buyer:       in.Buyer,
		ProductID:   in.ProductID,
		AccountType: in.AccountType,
		Duration:    in.Duration,
		Price:       in.Price,
		Payment:     in.Payment,
		Status:      domain.OrderStatusPending,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	return s.repo.GetOrder(ctx, orderID)
}

// List returns orders, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx, status)
}

// MarkPaid records the external payment-confirmation gate. It does not
// trigger fulfillment.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) error {
	if orderID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPaid, domain.OrderStatusPending)
}

// Cancel finalizes a not-yet-delivered order as cancelled. Paid but
// undelivered orders are cancellable too (refund handling is the caller's
// concern); once an allocation delivered the order there is no undo path
// here.
func (s *OrderService) Cancel(ctx context.Context, orderID string) error {
	if orderID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusCancelled,
		domain.OrderStatusPending, domain.OrderStatusPaid)
}

// Reject finalizes a not-yet-delivered order as rejected (bad payment
// proof, abusive buyer).
func (s *OrderService) Reject(ctx context.Context, orderID string) error {
	if orderID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusRejected,
		domain.OrderStatusPending, domain.OrderStatusPaid)
}
