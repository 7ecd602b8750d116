package service

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/utils/response"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/pkg/marketapi"
	"github.com/shopspring/decimal"
)

type StatusFilter string

const (
	StatusAll    StatusFilter = "all"
	StatusPaid   StatusFilter = "paid"
	StatusUnpaid StatusFilter = "unpaid"
)

// UnknownProduct labels line items whose product name cannot be resolved.
const UnknownProduct = "unknown"

type InvoiceLine struct {
	ProductName string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// InvoiceDetails is a single order with every line's product name resolved.
type InvoiceDetails struct {
	Order models.Order
	Lines []InvoiceLine
	Total string
}

type OrderService interface {
	Reload(ctx context.Context) error
	Orders() []models.Order
	SetQuery(query string)
	SetStatusFilter(filter StatusFilter)
	Filtered() []models.Order
	ToggleStatus(ctx context.Context, order models.Order) (models.OrderStatus, error)
	SetStatus(ctx context.Context, id int64, status models.OrderStatus) error
	Delete(ctx context.Context, id int64) (bool, error)
	Details(ctx context.Context, id int64) (*InvoiceDetails, error)
	InvoicePDF(ctx context.Context, id int64) ([]byte, error)
}

type orderService struct {
	client marketapi.Client
	orders []models.Order
	query  string
	status StatusFilter
}

func NewOrderService(client marketapi.Client) OrderService {
	return &orderService{client: client, status: StatusAll}
}

// Reload replaces the invoice list. On failure the previous list is kept.
func (s *orderService) Reload(ctx context.Context) error {

	orders, err := s.client.ListOrders(ctx)
	if err != nil {
		return err
	}

	s.orders = orders

	return nil
}

func (s *orderService) Orders() []models.Order {
	return s.orders
}

func (s *orderService) SetQuery(query string) {
	s.query = strings.ToLower(strings.TrimSpace(query))
}

func (s *orderService) SetStatusFilter(filter StatusFilter) {
	s.status = filter
}

// Filtered matches the query as a case-insensitive substring of the order id
// or the customer name, then applies the paid/unpaid filter.
func (s *orderService) Filtered() []models.Order {
	out := make([]models.Order, 0, len(s.orders))

	for _, o := range s.orders {
		if s.query != "" &&
			!strings.Contains(strconv.FormatInt(o.ID, 10), s.query) &&
			!strings.Contains(strings.ToLower(o.ClientName), s.query) {
			continue
		}

		switch {
		case s.status == StatusPaid && !o.IsPaid():
			continue
		case s.status == StatusUnpaid && o.IsPaid():
			continue
		}

		out = append(out, o)
	}

	return out
}

// ToggleStatus flips paid to pending and anything else to paid.
func (s *orderService) ToggleStatus(ctx context.Context, order models.Order) (models.OrderStatus, error) {
	next := order.ToggledStatus()

	if err := s.SetStatus(ctx, order.ID, next); err != nil {
		return "", err
	}

	return next, nil
}

func (s *orderService) SetStatus(ctx context.Context, id int64, status models.OrderStatus) error {

	if err := s.client.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = string(status)
		}
	}

	slog.Info("Invoice status updated", slog.Int64("order_id", id), slog.String("status", string(status)))

	return nil
}

func (s *orderService) Delete(ctx context.Context, id int64) (bool, error) {

	ok, err := s.client.DeleteOrder(ctx, id)
	if err != nil {
		return false, err
	}

	if !ok {
		slog.Warn("Invoice deletion not confirmed", slog.Int64("order_id", id))

		return false, nil
	}

	s.orders = slices.DeleteFunc(s.orders, func(o models.Order) bool { return o.ID == id })

	slog.Info("Invoice deleted", slog.Int64("order_id", id))

	return true, nil
}

// Details fetches the order fresh. Product names come from the line itself
// when present; a product lookup is only made for bare identifiers and each
// product is looked up at most once.
func (s *orderService) Details(ctx context.Context, id int64) (*InvoiceDetails, error) {

	order, err := s.client.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	names := map[int64]string{}
	lines := make([]InvoiceLine, 0, len(order.Items))

	for _, item := range order.Items {
		lines = append(lines, InvoiceLine{
			ProductName: s.productName(ctx, item, names),
			Description: response.PlainText(item.Description),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}

	total := order.TotalText()
	if total == "" {
		total = decimal.Zero.StringFixed(2)
	}

	return &InvoiceDetails{Order: *order, Lines: lines, Total: total}, nil
}

func (s *orderService) productName(ctx context.Context, item models.LineItem, cache map[int64]string) string {
	if name := strings.TrimSpace(item.ProductName); name != "" {
		return response.PlainText(name)
	}

	if item.ProductID == 0 {
		return UnknownProduct
	}

	if name, ok := cache[item.ProductID]; ok {
		return name
	}

	name := UnknownProduct

	product, err := s.client.GetProduct(ctx, item.ProductID)
	if err != nil {
		slog.Warn("Line item product lookup failed",
			slog.Int64("product_id", item.ProductID),
			slog.String("error", err.Error()),
		)
	} else if n := strings.TrimSpace(product.Name); n != "" {
		name = response.PlainText(n)
	}

	cache[item.ProductID] = name

	return name
}

// InvoicePDF returns the PDF bytes, or a NO_DOCUMENT error when the server
// did not produce one. The caller must not offer a save location in that case.
func (s *orderService) InvoicePDF(ctx context.Context, id int64) ([]byte, error) {

	data, err := s.client.FetchInvoicePDF(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, errors.NoDocumentError("The server did not return a PDF invoice", http.StatusOK).WithDetail("The document is empty")
	}

	return data, nil
}
