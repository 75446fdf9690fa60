package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/events"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/repositories"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderRepositories groups the gateways the checkout writes to
type OrderRepositories struct {
	Orders         repositories.OrderRepository
	Tickets        repositories.TicketRepository
	Subscriptions  repositories.SubscriptionRepository
	MultiRideCards repositories.MultiRideCardRepository
}

func (r OrderRepositories) withTx(tx *gorm.DB) OrderRepositories {
	return OrderRepositories{
		Orders:         r.Orders.WithTx(tx),
		Tickets:        r.Tickets.WithTx(tx),
		Subscriptions:  r.Subscriptions.WithTx(tx),
		MultiRideCards: r.MultiRideCards.WithTx(tx),
	}
}

// OrderService places carts and reads orders
type OrderService struct {
	db         *gorm.DB
	repos      OrderRepositories
	promotions *PromotionService
	publisher  events.Publisher
	now        func() time.Time
}

func NewOrderService(db *gorm.DB, repos OrderRepositories, promotions *PromotionService, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &OrderService{
		db:         db,
		repos:      repos,
		promotions: promotions,
		publisher:  publisher,
		now:        time.Now,
	}
}

// PlaceCart creates one child product row and one Order per line item, all sharing
// a fresh order reference. The whole cart is written in a single transaction:
// any invalid item, unknown product type, storage failure or cancelled context
// leaves nothing behind.
func (s *OrderService) PlaceCart(ctx context.Context, user *models.User, items []LineItemRequest, promotionCodes []string) ([]models.Order, error) {
	if user == nil || user.ID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	if len(items) == 0 {
		return nil, apperrors.BadRequest("Orders array is required and cannot be empty.")
	}

	promos, err := s.promotions.ResolveCodes(ctx, promotionCodes)
	if err != nil {
		return nil, err
	}

	ref := NewOrderReference()
	checkout := s.now().UTC()

	var created []models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos.withTx(tx)
		created = make([]models.Order, 0, len(items))

		for _, req := range items {
			item, err := DecodeLineItem(req, checkout)
			if err != nil {
				return err
			}

			order, err := s.placeLineItem(ctx, repos, item, req, user, promos, ref, checkout)
			if err != nil {
				return err
			}
			created = append(created, *order)
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("order_referentie", ref).Uint("user_id", user.ID).Msg("Checkout rolled back")
		return nil, err
	}

	log.Info().Str("order_referentie", ref).Uint("user_id", user.ID).Int("orders", len(created)).Msg("Cart placed")

	if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlacedEvent(created)); err != nil {
		log.Error().Err(err).Str("order_referentie", ref).Msg("Failed to publish order event")
	}
	return created, nil
}

// placeLineItem saves the child row for item and then the Order that bills it
func (s *OrderService) placeLineItem(
	ctx context.Context,
	repos OrderRepositories,
	item LineItem,
	req LineItemRequest,
	user *models.User,
	promos []models.Promotion,
	ref string,
	checkout time.Time,
) (*models.Order, error) {
	var (
		productType string
		productID   uint
	)

	switch it := item.(type) {
	case TicketItem:
		ticket, err := models.NewTicket(models.TicketParams{
			Date:         it.Date,
			Price:        it.Price,
			StartStation: it.StartStation,
			EndStation:   it.EndStation,
			OrderID:      ref,
		})
		if err != nil {
			return nil, apperrors.FromValidation(err)
		}
		if err := repos.Tickets.Save(ctx, ticket); err != nil {
			return nil, err
		}
		productType, productID = ticket.TableName(), ticket.ID

	case SubscriptionItem:
		sub, err := models.NewSubscription(models.SubscriptionParams{
			Region:    it.Region,
			Subtype:   it.Subtype,
			StartDate: it.StartDate,
			EndDate:   it.EndDate,
			OrderID:   ref,
		})
		if err != nil {
			return nil, apperrors.FromValidation(err)
		}
		if err := repos.Subscriptions.Save(ctx, sub); err != nil {
			return nil, err
		}
		productType, productID = sub.TableName(), sub.ID

	case MultiRideCardItem:
		card, err := models.NewMultiRideCard(models.MultiRideCardParams{
			RemainingRides: models.DefaultRides,
			Price:          it.Price,
			Valid:          true,
			StartDate:      it.StartDate,
			EndDate:        it.EndDate,
			OrderID:        ref,
		})
		if err != nil {
			return nil, apperrors.FromValidation(err)
		}
		if err := repos.MultiRideCards.Save(ctx, card); err != nil {
			return nil, err
		}
		productType, productID = card.TableName(), card.ID

	default:
		return nil, apperrors.InvalidProductType(item.Product())
	}

	details, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	order, err := models.NewOrder(models.OrderParams{
		OrderDate:       checkout,
		Product:         item.Product(),
		Price:           ApplyDiscounts(item.BasePrice(), promos),
		User:            user,
		Promotions:      promos,
		OrderReferentie: ref,
		ProductType:     productType,
		ProductID:       &productID,
		Details:         datatypes.JSON(details),
	})
	if err != nil {
		return nil, apperrors.FromValidation(err)
	}
	if err := repos.Orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetAllOrders returns every order with its user and promotions
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.repos.Orders.FindAll(ctx)
}

// GetOrderByID returns the order or a NOT_FOUND error
func (s *OrderService) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repos.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Order")
	}
	return order, nil
}

// GetOrdersByUser returns the orders owned by userID, registration order included
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.repos.Orders.FindAllByUserID(ctx, userID)
}

// GetOrdersByReference returns the orders placed in one checkout
func (s *OrderService) GetOrdersByReference(ctx context.Context, ref string) ([]models.Order, error) {
	return s.repos.Orders.FindAllByReference(ctx, ref)
}
