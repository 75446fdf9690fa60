package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/rs/zerolog/log"
)

// OrderExport describes an uploaded CSV export
type OrderExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Orders    int       `json:"orders"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportService writes order reports to object storage
type ExportService struct {
	orders  *OrderService
	storage S3Interface
	now     func() time.Time
}

func NewExportService(orders *OrderService, storage S3Interface) *ExportService {
	return &ExportService{orders: orders, storage: storage, now: time.Now}
}

var exportHeader = []string{
	"id", "orderDate", "product", "price", "userId", "email",
	"orderReferentie", "productType", "productId", "promotions",
}

// ExportOrders uploads every order as CSV to exports/orders-<unix>.csv and returns
// a presigned download link
func (s *ExportService) ExportOrders(ctx context.Context) (*OrderExport, error) {
	orders, err := s.orders.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	body, err := OrdersCSV(orders)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := fmt.Sprintf("exports/orders-%d.csv", now.Unix())
	if err := s.storage.PutObject(ctx, key, "text/csv", body); err != nil {
		return nil, err
	}

	url, err := s.storage.GetPresignedURL(ctx, key)
	if err != nil {
		// An export nobody can download is removed again
		if delErr := s.storage.DeleteObject(context.WithoutCancel(ctx), key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to remove unreachable export")
		}
		return nil, err
	}

	log.Info().Str("key", key).Int("orders", len(orders)).Msg("Exported orders")
	return &OrderExport{Key: key, URL: url, Orders: len(orders), ExpiresAt: now.Add(PresignExpiry)}, nil
}

// OrdersCSV renders orders with a header row
func OrdersCSV(orders []models.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, o := range orders {
		codes := make([]string, 0, len(o.Promotions))
		for _, p := range o.Promotions {
			codes = append(codes, p.Code)
		}
		productID := ""
		if o.ProductID != nil {
			productID = strconv.FormatUint(uint64(*o.ProductID), 10)
		}

		record := []string{
			strconv.FormatUint(uint64(o.ID), 10),
			o.OrderDate.UTC().Format(time.RFC3339),
			o.Product,
			o.Price.StringFixed(2),
			strconv.FormatUint(uint64(o.UserID), 10),
			o.User.Email,
			o.OrderReferentie,
			o.ProductType,
			productID,
			strings.Join(codes, ";"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
