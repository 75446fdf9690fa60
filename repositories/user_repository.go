package repositories

import (
	"context"

	"github.com/kendall-kelly/transit-pass-api/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id uint, role string) error
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	store[models.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{store[models.User]{db: db, name: "UserRepository"}}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return NewUserRepository(tx)
}

func (r *userRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return r.findAll(ctx)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.findByID(ctx, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("UserRepository.FindByEmail", err)
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	return r.save(ctx, user)
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return translate("UserRepository.UpdateRole", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
