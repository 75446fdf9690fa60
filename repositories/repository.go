package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("record already exists")
)

// translate maps gorm errors onto the repository error set.
// Anything that is not a missing row or a unique violation is logged with full
// detail and returned as a generic storage error.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case isUniqueViolation(err):
		return ErrDuplicate
	}

	log.Error().Err(err).Str("op", op).Msg("Storage failure")
	return apperrors.Storage(err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// store holds the operations every gateway shares
type store[T any] struct {
	db   *gorm.DB
	name string
}

func (s store[T]) findAll(ctx context.Context, preloads ...string) ([]T, error) {
	q := s.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	out := []T{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, translate(s.name+".FindAll", err)
	}
	return out, nil
}

func (s store[T]) findByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	q := s.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var out T
	if err := q.First(&out, id).Error; err != nil {
		return nil, translate(s.name+".FindByID", err)
	}
	return &out, nil
}

func (s store[T]) save(ctx context.Context, entity *T) error {
	return translate(s.name+".Save", s.db.WithContext(ctx).Create(entity).Error)
}

// findByOwningUser resolves the user's orders to their reference set and
// returns the rows of T whose order_id is in that set.
func (s store[T]) findByOwningUser(ctx context.Context, userID uint) ([]T, error) {
	var refs []string
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("order_referentie", &refs).Error
	if err != nil {
		return nil, translate(s.name+".FindAllByOwningUserID", err)
	}

	out := []T{}
	if len(refs) == 0 {
		return out, nil
	}
	if err := s.db.WithContext(ctx).Where("order_id IN ?", refs).Order("id").Find(&out).Error; err != nil {
		return nil, translate(s.name+".FindAllByOwningUserID", err)
	}
	return out, nil
}
