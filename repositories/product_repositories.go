package repositories

import (
	"context"

	"github.com/kendall-kelly/transit-pass-api/models"
	"gorm.io/gorm"
)

// ProductRepository is the gateway shape shared by the three child product tables
type ProductRepository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	FindAllByOwningUserID(ctx context.Context, userID uint) ([]T, error)
	Save(ctx context.Context, entity *T) error
	WithTx(tx *gorm.DB) ProductRepository[T]
}

type (
	TicketRepository        = ProductRepository[models.Ticket]
	SubscriptionRepository  = ProductRepository[models.Subscription]
	MultiRideCardRepository = ProductRepository[models.MultiRideCard]
)

type productRepository[T any] struct {
	store[T]
}

func newProductRepository[T any](db *gorm.DB, name string) ProductRepository[T] {
	return &productRepository[T]{store[T]{db: db, name: name}}
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return newProductRepository[models.Ticket](db, "TicketRepository")
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return newProductRepository[models.Subscription](db, "SubscriptionRepository")
}

func NewMultiRideCardRepository(db *gorm.DB) MultiRideCardRepository {
	return newProductRepository[models.MultiRideCard](db, "MultiRideCardRepository")
}

func (r *productRepository[T]) WithTx(tx *gorm.DB) ProductRepository[T] {
	return newProductRepository[T](tx, r.name)
}

func (r *productRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.findAll(ctx)
}

func (r *productRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	return r.findByID(ctx, id)
}

func (r *productRepository[T]) FindAllByOwningUserID(ctx context.Context, userID uint) ([]T, error) {
	return r.findByOwningUser(ctx, userID)
}

func (r *productRepository[T]) Save(ctx context.Context, entity *T) error {
	return r.save(ctx, entity)
}
