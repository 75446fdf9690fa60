package services

import (
	"context"

	"github.com/kendall-kelly/transit-pass-api/models"
	"golang.org/x/sync/errgroup"
)

// AccountProducts is everything a user has bought, grouped by product table
type AccountProducts struct {
	Tickets        []models.Ticket        `json:"tickets"`
	Subscriptions  []models.Subscription  `json:"subscriptions"`
	MultiRideCards []models.MultiRideCard `json:"multiRideCards"`
}

// AccountService assembles the account overview of a user
type AccountService struct {
	tickets        *TicketService
	subscriptions  *SubscriptionService
	multiRideCards *MultiRideCardService
}

func NewAccountService(tickets *TicketService, subscriptions *SubscriptionService, multiRideCards *MultiRideCardService) *AccountService {
	return &AccountService{
		tickets:        tickets,
		subscriptions:  subscriptions,
		multiRideCards: multiRideCards,
	}
}

// GetProducts loads the three product collections of userID concurrently.
// The first failure cancels the other lookups.
func (s *AccountService) GetProducts(ctx context.Context, userID uint) (*AccountProducts, error) {
	var out AccountProducts
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tickets, err := s.tickets.GetByOwningUser(gctx, userID)
		out.Tickets = tickets
		return err
	})
	g.Go(func() error {
		subs, err := s.subscriptions.GetByOwningUser(gctx, userID)
		out.Subscriptions = subs
		return err
	})
	g.Go(func() error {
		cards, err := s.multiRideCards.GetByOwningUser(gctx, userID)
		out.MultiRideCards = cards
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
