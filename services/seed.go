package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kendall-kelly/transit-pass-api/auth"
	"github.com/kendall-kelly/transit-pass-api/repositories"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedData is the bootstrap content written at startup
type SeedData struct {
	Admin      *RegisterUserInput
	Promotions []CreatePromotionInput
}

// ParsePromotionSeeds reads "CODE:percent" entries, e.g. "Promo1:10"
func ParsePromotionSeeds(entries []string) ([]CreatePromotionInput, error) {
	out := make([]CreatePromotionInput, 0, len(entries))
	for _, entry := range entries {
		code, amount, ok := strings.Cut(entry, ":")
		code = strings.TrimSpace(code)
		if !ok || code == "" {
			return nil, fmt.Errorf("invalid promotion seed %q, expected CODE:percent", entry)
		}
		discount, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("invalid discount in promotion seed %q: %w", entry, err)
		}
		out = append(out, CreatePromotionInput{Code: code, DiscountAmount: discount})
	}
	return out, nil
}

// Seed writes the admin account and promotions that do not exist yet.
// Running it again against a seeded database changes nothing.
func Seed(ctx context.Context, db *gorm.DB, hasher *auth.PasswordHasher, data SeedData) error {
	if data.Admin != nil {
		users := NewUserService(db, repositories.NewUserRepository(db), repositories.NewOrderRepository(db), hasher, nil)
		admin, err := users.EnsureAdmin(ctx, *data.Admin)
		if err != nil {
			return fmt.Errorf("seed admin %s: %w", data.Admin.Email, err)
		}
		log.Info().Uint("user_id", admin.ID).Str("email", admin.Email).Msg("Admin account ready")
	}

	promotions := NewPromotionService(repositories.NewPromotionRepository(db))
	for _, input := range data.Promotions {
		promo, err := promotions.EnsurePromotion(ctx, input)
		if err != nil {
			return fmt.Errorf("seed promotion %s: %w", input.Code, err)
		}
		log.Info().Str("code", promo.Code).Msg("Promotion ready")
	}
	return nil
}
