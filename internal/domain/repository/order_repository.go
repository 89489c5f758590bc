package repository

import (
	"context"

	"github.com/skillboost/skillboost-api/internal/domain/entity"
)

// OrderRepository defines the interface for order document operations.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// ActiveCartByUser returns the user's single status=cart order, or
	// ErrNotFound when the user has no active cart.
	ActiveCartByUser(ctx context.Context, userID string) (*entity.Order, error)
	// OrdersByUser returns the user's status=order orders in storage order.
	OrdersByUser(ctx context.Context, userID string) ([]entity.Order, error)
	Update(ctx context.Context, o *entity.Order) error
	Delete(ctx context.Context, id string) error
}
