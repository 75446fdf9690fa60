package repositories

import (
	"context"

	"github.com/kendall-kelly/transit-pass-api/models"
	"gorm.io/gorm"
)

type PromotionRepository interface {
	FindAll(ctx context.Context) ([]models.Promotion, error)
	FindByID(ctx context.Context, id uint) (*models.Promotion, error)
	FindByCode(ctx context.Context, code string) (*models.Promotion, error)
	FindActiveByCode(ctx context.Context, code string) (*models.Promotion, error)
	Save(ctx context.Context, promotion *models.Promotion) error
	WithTx(tx *gorm.DB) PromotionRepository
}

type promotionRepository struct {
	store[models.Promotion]
}

func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{store[models.Promotion]{db: db, name: "PromotionRepository"}}
}

func (r *promotionRepository) WithTx(tx *gorm.DB) PromotionRepository {
	return NewPromotionRepository(tx)
}

func (r *promotionRepository) FindAll(ctx context.Context) ([]models.Promotion, error) {
	return r.findAll(ctx)
}

func (r *promotionRepository) FindByID(ctx context.Context, id uint) (*models.Promotion, error) {
	return r.findByID(ctx, id)
}

func (r *promotionRepository) FindByCode(ctx context.Context, code string) (*models.Promotion, error) {
	var promo models.Promotion
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&promo).Error; err != nil {
		return nil, translate("PromotionRepository.FindByCode", err)
	}
	return &promo, nil
}

func (r *promotionRepository) FindActiveByCode(ctx context.Context, code string) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&promo).Error
	if err != nil {
		return nil, translate("PromotionRepository.FindActiveByCode", err)
	}
	return &promo, nil
}

func (r *promotionRepository) Save(ctx context.Context, promotion *models.Promotion) error {
	return r.save(ctx, promotion)
}
