package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/auth"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/repositories"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterUserInput is the registration payload
type RegisterUserInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

// LoginResult is returned by Authenticate
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// UserService handles registration, login and role management
type UserService struct {
	db     *gorm.DB
	users  repositories.UserRepository
	orders repositories.OrderRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
	now    func() time.Time
}

func NewUserService(db *gorm.DB, users repositories.UserRepository, orders repositories.OrderRepository, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer) *UserService {
	return &UserService{
		db:     db,
		users:  users,
		orders: orders,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// CreateUser registers a user with role "user". The bcrypt hash of the password is
// stored, and a zero-price "User Registration" order is written in the same transaction.
func (s *UserService) CreateUser(ctx context.Context, input RegisterUserInput) (*models.User, error) {
	return s.register(ctx, input, models.RoleUser)
}

// EnsureAdmin makes sure an administrator with the given email exists. A missing
// account is registered with role admin; an existing one is promoted and keeps
// its password.
func (s *UserService) EnsureAdmin(ctx context.Context, input RegisterUserInput) (*models.User, error) {
	existing, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return s.register(ctx, input, models.RoleAdmin)
	}
	if err != nil {
		return nil, err
	}

	if existing.Role == models.RoleAdmin {
		return existing, nil
	}
	log.Info().Uint("user_id", existing.ID).Msg("Promoting seeded user to admin")
	return s.UpdateUserRole(ctx, existing.ID, models.RoleAdmin)
}

func (s *UserService) register(ctx context.Context, input RegisterUserInput, role string) (*models.User, error) {
	user, err := models.NewUser(models.UserParams{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     normalizeEmail(input.Email),
		Password:  input.Password,
		Role:      role,
	})
	if err != nil {
		return nil, apperrors.FromValidation(err)
	}

	_, err = s.users.FindByEmail(ctx, user.Email)
	if err == nil {
		return nil, apperrors.Duplicate("User already exists")
	}
	if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hash

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Save(ctx, user); err != nil {
			return err
		}

		registration, err := models.NewOrder(models.OrderParams{
			OrderDate:       s.now().UTC(),
			Product:         models.ProductUserRegistration,
			Price:           decimal.Zero,
			User:            user,
			OrderReferentie: NewOrderReference(),
		})
		if err != nil {
			return apperrors.FromValidation(err)
		}
		return s.orders.WithTx(tx).Save(ctx, registration)
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		// Lost a race with a concurrent registration for the same email
		return nil, apperrors.Duplicate("User already exists")
	}
	if err != nil {
		return nil, err
	}

	log.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("User registered")
	return user, nil
}

// VerifyCredentials reports whether password matches the stored hash of the user
// with the given email. An unknown email is not an error.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (bool, error) {
	_, ok, err := s.verify(ctx, email, password)
	return ok, err
}

func (s *UserService) verify(ctx context.Context, email, password string) (*models.User, bool, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	ok, err := s.hasher.Verify(ctx, user.Password, password)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return user, true, nil
}

// Authenticate checks the credentials and issues an access token
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	user, ok, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	issued, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user}, nil
}

// UpdateUserRole changes the role of a user. Callers must already be authorised as admin.
func (s *UserService) UpdateUserRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !models.ValidRole(role) {
		return nil, apperrors.Validation("Role must be one of user, moderator, admin")
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, fromRepo(err, "User")
	}
	return s.GetUserByID(ctx, userID)
}

// GetAllUsers returns every user
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

// GetUserByID returns the user or a NOT_FOUND error
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "User")
	}
	return user, nil
}

// GetUserByEmail returns the user or a NOT_FOUND error
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fromRepo(err, "User")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
