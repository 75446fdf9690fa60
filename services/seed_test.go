package services

import (
	"context"
	"testing"

	"github.com/kendall-kelly/transit-pass-api/auth"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedData() SeedData {
	admin := RegisterUserInput{FirstName: "Jef", LastName: "Doe", Email: "Jef.Doe@example.com", Password: "s3cret-admin"}
	return SeedData{
		Admin:      &admin,
		Promotions: []CreatePromotionInput{{Code: "Promo1", DiscountAmount: decimal.NewFromInt(10)}},
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, 1)

	require.NoError(t, Seed(ctx, env.db, hasher, seedData()))
	require.NoError(t, Seed(ctx, env.db, hasher, seedData()))

	var admins int64
	require.NoError(t, env.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)

	var promos []models.Promotion
	require.NoError(t, env.db.Find(&promos).Error)
	require.Len(t, promos, 1)
	assert.Equal(t, "Promo1", promos[0].Code)
	assert.True(t, promos[0].IsActive)
	assert.True(t, promos[0].DiscountAmount.Equal(decimal.NewFromInt(10)))

	ok, err := env.users.VerifyCredentials(ctx, "jef.doe@example.com", "s3cret-admin")
	require.NoError(t, err)
	assert.True(t, ok, "the seeded admin can log in")

	promo, err := env.promotions.ValidateCode(ctx, "Promo1")
	require.NoError(t, err)
	assert.NotNil(t, promo)
}

func TestSeedPromotesExistingUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rider, err := env.users.CreateUser(ctx, registration("jef.doe@example.com"))
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, rider.Role)

	require.NoError(t, Seed(ctx, env.db, auth.NewPasswordHasher(bcrypt.MinCost, 1), seedData()))

	user, err := env.users.GetUserByID(ctx, rider.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	ok, err := env.users.VerifyCredentials(ctx, "jef.doe@example.com", "correct horse")
	require.NoError(t, err)
	assert.True(t, ok, "promotion keeps the existing password")
}

func TestSeedKeepsExistingPromotion(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreatePromotion(t, env.db, "Promo1", false, 50)

	require.NoError(t, Seed(context.Background(), env.db, auth.NewPasswordHasher(bcrypt.MinCost, 1), SeedData{
		Promotions: []CreatePromotionInput{{Code: "Promo1", DiscountAmount: decimal.NewFromInt(10)}},
	}))

	var promo models.Promotion
	require.NoError(t, env.db.Where("code = ?", "Promo1").First(&promo).Error)
	assert.False(t, promo.IsActive)
	assert.True(t, promo.DiscountAmount.Equal(decimal.NewFromInt(50)))
}

func TestSeedWithoutData(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, Seed(context.Background(), env.db, auth.NewPasswordHasher(bcrypt.MinCost, 1), SeedData{}))

	var users int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestSeedRejectsInvalidAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := RegisterUserInput{FirstName: "Jef", LastName: "Doe", Email: "jef@example.com"}

	err := Seed(context.Background(), env.db, auth.NewPasswordHasher(bcrypt.MinCost, 1), SeedData{Admin: &admin})
	assert.Error(t, err)
}

func TestParsePromotionSeeds(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    []string
		wantErr bool
	}{
		{"empty", nil, []string{}, false},
		{"single", []string{"Promo1:10"}, []string{"Promo1=10"}, false},
		{"spaces and decimals", []string{" SPRING : 12.5 "}, []string{"SPRING=12.5"}, false},
		{"missing separator", []string{"Promo1"}, nil, true},
		{"missing code", []string{":10"}, nil, true},
		{"bad amount", []string{"Promo1:ten"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePromotionSeeds(tt.entries)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			pairs := make([]string, 0, len(got))
			for _, p := range got {
				pairs = append(pairs, p.Code+"="+p.DiscountAmount.String())
			}
			assert.Equal(t, tt.want, pairs)
		})
	}
}
