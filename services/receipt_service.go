package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/shopspring/decimal"
)

var (
	receiptPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	receiptGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptService renders PDF receipts for a checkout
type ReceiptService struct {
	issuer string
}

func NewReceiptService(issuer string) *ReceiptService {
	if issuer == "" {
		issuer = "Transit Pass"
	}
	return &ReceiptService{issuer: issuer}
}

// Render builds an A4 receipt listing orders, which must all belong to one checkout
func (s *ReceiptService) Render(_ context.Context, orders []models.Order) ([]byte, error) {
	if len(orders) == 0 {
		return nil, errors.New("receipt: no orders to render")
	}
	first := orders[0]

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Receipt "+first.OrderReferentie, true).
		WithAuthor(s.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(s.headerRow(first))
	m.AddRows(line.NewRow(1, props.Line{Color: receiptPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(first.User))
	m.AddRows(line.NewRow(1, props.Line{Color: receiptPrimary, Thickness: 0.3}))

	m.AddRows(receiptTableHeader())
	total := decimal.Zero
	for _, o := range orders {
		m.AddRows(receiptLine(o))
		total = total.Add(o.Price)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: receiptPrimary, Thickness: 0.3}))
	if codes := promotionCodes(first.Promotions); codes != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Promotions applied: "+codes, props.Text{Size: 8, Top: 1, Color: receiptGray}),
		)))
	}
	m.AddRows(row.New(10).Add(
		col.New(9).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: receiptPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("EUR "+total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: receiptPrimary, Right: 1, Top: 2,
		})),
	))

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Order reference: "+first.OrderReferentie, props.Text{Size: 7, Color: receiptGray, Top: 1}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("receipt: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func (s *ReceiptService) headerRow(order models.Order) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(s.issuer, props.Text{Style: fontstyle.Bold, Size: 13, Color: receiptPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New("RECEIPT", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: receiptPrimary, Top: 1}),
			text.New("Date: "+order.OrderDate.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 8, Color: receiptGray}),
		),
	)
}

func customerRow(user models.User) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CUSTOMER", props.Text{Style: fontstyle.Bold, Size: 8, Color: receiptPrimary, Top: 1}),
			text.New(strings.TrimSpace(user.FirstName+" "+user.LastName)+"   |   "+user.Email, props.Text{Size: 9, Top: 6}),
		),
	)
}

func receiptTableHeader() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Product", 3, align.Left),
		h("Details", 6, align.Left),
		h("Price", 3, align.Right),
	)
}

func receiptLine(order models.Order) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(order.Product, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(6).Add(text.New(describeLineItem(order), props.Text{Size: 8, Top: 1, Left: 1, Color: receiptGray})),
		col.New(3).Add(text.New("EUR "+order.Price.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// describeLineItem summarises the line item snapshot stored on the order
func describeLineItem(order models.Order) string {
	var req LineItemRequest
	if len(order.Details) == 0 || json.Unmarshal(order.Details, &req) != nil {
		return ""
	}

	switch order.Product {
	case TagTicket:
		return fmt.Sprintf("%s -> %s on %s", req.StartStation, req.EndStation, req.Date)
	case TagSubscription:
		return fmt.Sprintf("%s, region %s, from %s", req.Subtype, req.Region, req.StartDate)
	case TagMultiRideCard:
		return fmt.Sprintf("%d rides", models.DefaultRides)
	}
	return ""
}

func promotionCodes(promos []models.Promotion) string {
	codes := make([]string, 0, len(promos))
	for _, p := range promos {
		codes = append(codes, fmt.Sprintf("%s (-%s%%)", p.Code, p.DiscountAmount.String()))
	}
	return strings.Join(codes, ", ")
}
