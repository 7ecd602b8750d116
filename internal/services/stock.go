package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/utils"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/pkg/marketapi"
	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

type StockFilter string

const (
	StockAll         StockFilter = "all"
	StockLow         StockFilter = "low"
	StockUnavailable StockFilter = "unavailable"
)

const stockSheet = "Stock"

// MaxStockAmount bounds every quantity typed into a stock prompt.
const MaxStockAmount = 100000

type stockChange struct {
	Magnitude int `validate:"gt=0,lte=100000"`
}

type stockThreshold struct {
	Value int `validate:"gte=0,lte=100000"`
}

type StockService interface {
	Reload(ctx context.Context) error
	Items() []models.Product
	SetQuery(query string)
	SetFilter(filter StockFilter)
	Filtered() []models.Product
	Increase(ctx context.Context, id int64, magnitude int) (*models.Product, error)
	Decrease(ctx context.Context, id int64, magnitude int) (*models.Product, error)
	SetMinimum(ctx context.Context, id int64, value int) (*models.Product, error)
	Export(w io.Writer, rows []models.Product) error
}

type stockService struct {
	client   marketapi.Client
	validate *validator.Validate
	items    []models.Product
	query    string
	filter   StockFilter
}

func NewStockService(client marketapi.Client) StockService {
	return &stockService{
		client:   client,
		validate: validator.New(),
		filter:   StockAll,
	}
}

// ParseAmount reads a whole number typed into a stock prompt.
func ParseAmount(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errors.UserInputError("Invalid quantity").WithDetail("Enter a whole number").WithError(err)
	}

	return n, nil
}

// Reload reads the stock endpoint and falls back to the product list when it
// is missing or answers with an error. An unreachable server is not asked
// twice. If loading fails the previous rows are kept.
func (s *stockService) Reload(ctx context.Context) error {

	items, err := s.client.ListStock(ctx)
	switch {
	case err == nil:
	case errors.HasCode(err, errors.ErrCodeTransport):
		return err
	default:
		if !errors.HasCode(err, errors.ErrCodeNotFound) {
			slog.Warn("Stock endpoint failed, falling back to the product list", slog.String("error", err.Error()))
		}

		items, err = s.client.ListProducts(ctx)
		if err != nil {
			return err
		}
	}

	s.items = items

	return nil
}

func (s *stockService) Items() []models.Product {
	return s.items
}

func (s *stockService) SetQuery(query string) {
	s.query = strings.ToLower(strings.TrimSpace(query))
}

func (s *stockService) SetFilter(filter StockFilter) {
	s.filter = filter
}

// Filtered matches the query against "id name category" and applies the
// low/unavailable filter.
func (s *stockService) Filtered() []models.Product {
	out := make([]models.Product, 0, len(s.items))

	for _, p := range s.items {
		haystack := strings.ToLower(fmt.Sprintf("%d %s %s", p.ID, p.Name, p.Category))
		if s.query != "" && !strings.Contains(haystack, s.query) {
			continue
		}

		switch {
		case s.filter == StockLow && !p.IsLowStock():
			continue
		case s.filter == StockUnavailable && !p.IsUnavailable():
			continue
		}

		out = append(out, p)
	}

	return out
}

func (s *stockService) Increase(ctx context.Context, id int64, magnitude int) (*models.Product, error) {
	return s.change(ctx, id, models.StockIncrement, magnitude)
}

// Decrease lowers the quantity; the result never goes below zero.
func (s *stockService) Decrease(ctx context.Context, id int64, magnitude int) (*models.Product, error) {
	return s.change(ctx, id, models.StockDecrement, magnitude)
}

func (s *stockService) change(ctx context.Context, id int64, op models.StockOperation, magnitude int) (*models.Product, error) {

	if err := utils.ValidateStruct(s.validate, stockChange{Magnitude: magnitude}); err != nil {
		return nil, errors.UserInputError("Invalid quantity").WithDetail(fmt.Sprintf("The quantity must be between 1 and %d", MaxStockAmount)).WithError(err)
	}

	product, err := s.client.UpdateStock(ctx, id, op, magnitude)
	if err != nil {
		return nil, err
	}

	s.replace(*product)

	slog.Info("Stock updated",
		slog.Int64("product_id", id),
		slog.String("operation", string(op)),
		slog.Int("magnitude", magnitude),
		slog.Int("stock", product.Stock),
	)

	return product, nil
}

func (s *stockService) SetMinimum(ctx context.Context, id int64, value int) (*models.Product, error) {

	if err := utils.ValidateStruct(s.validate, stockThreshold{Value: value}); err != nil {
		return nil, errors.UserInputError("Invalid minimum").WithDetail(fmt.Sprintf("The minimum must be between 0 and %d", MaxStockAmount)).WithError(err)
	}

	product, err := s.client.SetMinStock(ctx, id, value)
	if err != nil {
		return nil, err
	}

	s.replace(*product)

	slog.Info("Minimum stock updated", slog.Int64("product_id", id), slog.Int("min_stock", value))

	return product, nil
}

func (s *stockService) replace(product models.Product) {
	if i := slices.IndexFunc(s.items, func(p models.Product) bool { return p.ID == product.ID }); i >= 0 {
		s.items[i] = product
	}
}

// Export writes rows as an XLSX workbook; rows at or under their minimum are
// highlighted as in the table.
func (s *stockService) Export(w io.Writer, rows []models.Product) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close workbook", slog.String("error", err.Error()))
		}
	}()

	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return errors.InternalError("Failed to export stock").WithError(err)
	}

	header := []any{"ID", "Name", "Category", "Price", "Quantity", "Minimum", "Updated"}
	if err := f.SetSheetRow(stockSheet, "A1", &header); err != nil {
		return errors.InternalError("Failed to export stock").WithError(err)
	}

	lowStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFE0E0"}, Pattern: 1},
	})
	if err != nil {
		return errors.InternalError("Failed to export stock").WithError(err)
	}

	for i, p := range rows {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{p.ID, p.Name, p.Category, p.Price.InexactFloat64(), p.Stock, p.MinStock, models.FormatDate(p.UpdatedAt)}

		if err := f.SetSheetRow(stockSheet, cell, &values); err != nil {
			return errors.InternalError("Failed to export stock").WithError(err)
		}

		if p.IsLowStock() {
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(stockSheet, cell, last, lowStyle); err != nil {
				return errors.InternalError("Failed to export stock").WithError(err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return errors.InternalError("Failed to export stock").WithError(err)
	}

	slog.Info("Stock exported", slog.Int("rows", len(rows)))

	return nil
}
