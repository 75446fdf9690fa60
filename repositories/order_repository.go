package repositories

import (
	"context"

	"github.com/kendall-kelly/transit-pass-api/models"
	"gorm.io/gorm"
)

type OrderRepository interface {
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindAllByUserID(ctx context.Context, userID uint) ([]models.Order, error)
	FindAllByReference(ctx context.Context, ref string) ([]models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	store[models.Order]
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{store[models.Order]{db: db, name: "OrderRepository"}}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return NewOrderRepository(tx)
}

func (r *orderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	return r.findAll(ctx, "User", "Promotions")
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	return r.findByID(ctx, id, "User", "Promotions")
}

func (r *orderRepository) FindAllByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Promotions").
		Where("user_id = ?", userID).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, translate("OrderRepository.FindAllByUserID", err)
	}
	return orders, nil
}

func (r *orderRepository) FindAllByReference(ctx context.Context, ref string) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Promotions").
		Where("order_referentie = ?", ref).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, translate("OrderRepository.FindAllByReference", err)
	}
	return orders, nil
}

// Save inserts the order and its order_promotions rows. The owning user and the
// promotions themselves must already exist.
func (r *orderRepository) Save(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Omit("User", "Promotions.*").Create(order).Error
	return translate("OrderRepository.Save", err)
}
