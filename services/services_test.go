package services

import (
	"testing"
	"time"

	"github.com/kendall-kelly/transit-pass-api/auth"
	"github.com/kendall-kelly/transit-pass-api/events"
	"github.com/kendall-kelly/transit-pass-api/repositories"
	"github.com/kendall-kelly/transit-pass-api/tests/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// testEnv wires every service against a fresh in-memory database
type testEnv struct {
	db            *gorm.DB
	publisher     *events.MockPublisher
	users         *UserService
	orders        *OrderService
	promotions    *PromotionService
	tickets       *TicketService
	subscriptions *SubscriptionService
	cards         *MultiRideCardService
	account       *AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	repos := OrderRepositories{
		Orders:         repositories.NewOrderRepository(db),
		Tickets:        repositories.NewTicketRepository(db),
		Subscriptions:  repositories.NewSubscriptionRepository(db),
		MultiRideCards: repositories.NewMultiRideCardRepository(db),
	}
	publisher := events.NewMockPublisher()
	promotions := NewPromotionService(repositories.NewPromotionRepository(db))
	tickets := NewTicketService(repos.Tickets, repos.Orders)
	subscriptions := NewSubscriptionService(repos.Subscriptions, repos.Orders)
	cards := NewMultiRideCardService(repos.MultiRideCards, repos.Orders)

	return &testEnv{
		db:        db,
		publisher: publisher,
		users: NewUserService(
			db,
			repositories.NewUserRepository(db),
			repos.Orders,
			auth.NewPasswordHasher(bcrypt.MinCost, 2),
			testutil.NewTokenIssuer(),
		),
		orders:        NewOrderService(db, repos, promotions, publisher),
		promotions:    promotions,
		tickets:       tickets,
		subscriptions: subscriptions,
		cards:         cards,
		account:       NewAccountService(tickets, subscriptions, cards),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
