package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/repositories"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PromotionService validates promotion codes and applies their discounts
type PromotionService struct {
	promotions repositories.PromotionRepository
}

func NewPromotionService(promotions repositories.PromotionRepository) *PromotionService {
	return &PromotionService{promotions: promotions}
}

// CreatePromotionInput is the admin payload for a new promotion code
type CreatePromotionInput struct {
	Code           string          `json:"code" binding:"required"`
	IsActive       *bool           `json:"isActive"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// ValidateCode returns the active promotion with the given code.
// An unknown or inactive code yields (nil, nil).
func (s *PromotionService) ValidateCode(ctx context.Context, code string) (*models.Promotion, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	promo, err := s.promotions.FindActiveByCode(ctx, code)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return promo, nil
}

// ResolveCodes turns the codes of a cart into active promotions.
// Blank and repeated codes are ignored; any unknown or inactive code rejects the cart.
func (s *PromotionService) ResolveCodes(ctx context.Context, codes []string) ([]models.Promotion, error) {
	promos := []models.Promotion{}
	seen := make(map[string]bool, len(codes))

	for _, raw := range codes {
		code := strings.TrimSpace(raw)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		promo, err := s.ValidateCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if promo == nil {
			return nil, apperrors.Validation(fmt.Sprintf("Promotion code %q is invalid or inactive", code))
		}
		promos = append(promos, *promo)
	}
	return promos, nil
}

// ApplyDiscount returns price reduced by the promotion's percentage, rounded to
// cents and never below zero. A nil promotion leaves the price unchanged.
func ApplyDiscount(price decimal.Decimal, promo *models.Promotion) decimal.Decimal {
	if promo == nil {
		return price
	}
	discounted := price.Sub(price.Mul(promo.DiscountAmount).Div(hundred)).Round(2)
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}

// ApplyDiscounts applies each promotion in turn
func ApplyDiscounts(price decimal.Decimal, promos []models.Promotion) decimal.Decimal {
	for i := range promos {
		price = ApplyDiscount(price, &promos[i])
	}
	return price
}

// CreatePromotion stores a new code. Codes are active unless IsActive is false.
func (s *PromotionService) CreatePromotion(ctx context.Context, input CreatePromotionInput) (*models.Promotion, error) {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	promo, err := models.NewPromotion(models.PromotionParams{
		Code:           strings.TrimSpace(input.Code),
		IsActive:       active,
		DiscountAmount: input.DiscountAmount,
	})
	if err != nil {
		return nil, apperrors.FromValidation(err)
	}

	if err := s.promotions.Save(ctx, promo); err != nil {
		return nil, fromRepo(err, "Promotion")
	}
	return promo, nil
}

// EnsurePromotion creates the code unless a promotion with that code already
// exists, in which case the stored one is returned unchanged
func (s *PromotionService) EnsurePromotion(ctx context.Context, input CreatePromotionInput) (*models.Promotion, error) {
	existing, err := s.promotions.FindByCode(ctx, strings.TrimSpace(input.Code))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}
	return s.CreatePromotion(ctx, input)
}

// GetAllPromotions returns every promotion, active or not
func (s *PromotionService) GetAllPromotions(ctx context.Context) ([]models.Promotion, error) {
	return s.promotions.FindAll(ctx)
}
