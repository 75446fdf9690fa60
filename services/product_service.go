package services

import (
	"context"

	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/repositories"
)

// Product is a child product row linked to its checkout by order reference
type Product interface {
	OrderReference() string
}

// ProductService is the read side of one child product table
type ProductService[T Product] struct {
	repo     repositories.ProductRepository[T]
	orders   repositories.OrderRepository
	resource string
}

type (
	TicketService        = ProductService[models.Ticket]
	SubscriptionService  = ProductService[models.Subscription]
	MultiRideCardService = ProductService[models.MultiRideCard]
)

func NewTicketService(repo repositories.TicketRepository, orders repositories.OrderRepository) *TicketService {
	return &TicketService{repo: repo, orders: orders, resource: "Ticket"}
}

func NewSubscriptionService(repo repositories.SubscriptionRepository, orders repositories.OrderRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo, orders: orders, resource: "Subscription"}
}

func NewMultiRideCardService(repo repositories.MultiRideCardRepository, orders repositories.OrderRepository) *MultiRideCardService {
	return &MultiRideCardService{repo: repo, orders: orders, resource: "Multi-ride card"}
}

func (s *ProductService[T]) GetAll(ctx context.Context) ([]T, error) {
	return s.repo.FindAll(ctx)
}

// GetByID returns the row or a NOT_FOUND error
func (s *ProductService[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, s.resource)
	}
	return entity, nil
}

// GetByOwningUser returns the rows whose order reference belongs to one of the user's orders
func (s *ProductService[T]) GetByOwningUser(ctx context.Context, userID uint) ([]T, error) {
	return s.repo.FindAllByOwningUserID(ctx, userID)
}

// OwnedBy reports whether one of the orders that share entity's reference
// belongs to userID
func (s *ProductService[T]) OwnedBy(ctx context.Context, entity *T, userID uint) (bool, error) {
	orders, err := s.orders.FindAllByReference(ctx, (*entity).OrderReference())
	if err != nil {
		return false, err
	}
	for _, order := range orders {
		if order.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
