package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/pkg/marketapi"
)

// AllCategories disables the category filter.
const AllCategories = "all"

// ProductForm is what the product dialog collects. Values are sent as typed;
// the server validates them.
type ProductForm struct {
	Name        string
	Price       string
	Description string
	Category    string
	ImagePath   string
}

// FormFromProduct pre-fills the dialog in edit mode.
func FormFromProduct(p models.Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Description: p.Description,
		Category:    p.Category,
	}
}

func (f ProductForm) input() models.ProductInput {
	name, price, description, category := f.Name, f.Price, f.Description, f.Category

	return models.ProductInput{
		Name:        &name,
		Price:       &price,
		Description: &description,
		Category:    &category,
	}
}

type ProductService interface {
	Reload(ctx context.Context) error
	Products() []models.Product
	Categories() []string
	SetCategoryFilter(category string)
	CategoryFilter() string
	Filtered() []models.Product
	Save(ctx context.Context, existing *models.Product, form ProductForm) (*models.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Image(ctx context.Context, p models.Product) ([]byte, error)
}

type productService struct {
	client     marketapi.Client
	categories []string
	products   []models.Product
	category   string
}

func NewProductService(client marketapi.Client, categories []string) ProductService {
	return &productService{
		client:     client,
		categories: categories,
		category:   AllCategories,
	}
}

// Reload replaces the product list. On failure the previous list is kept.
func (s *productService) Reload(ctx context.Context) error {

	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return err
	}

	s.products = products

	return nil
}

func (s *productService) Products() []models.Product {
	return s.products
}

func (s *productService) Categories() []string {
	return s.categories
}

func (s *productService) SetCategoryFilter(category string) {
	if strings.TrimSpace(category) == "" {
		category = AllCategories
	}

	s.category = category
}

func (s *productService) CategoryFilter() string {
	return s.category
}

// Filtered returns the products whose category equals the filter exactly.
func (s *productService) Filtered() []models.Product {
	if s.category == AllCategories {
		return slices.Clone(s.products)
	}

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Category == s.category {
			out = append(out, p)
		}
	}

	return out
}

// Save creates a product when existing is nil and updates it otherwise.
func (s *productService) Save(ctx context.Context, existing *models.Product, form ProductForm) (*models.Product, error) {

	if existing == nil {
		product, err := s.client.CreateProduct(ctx, form.input(), form.ImagePath)
		if err != nil {
			return nil, err
		}

		slog.Info("Product created", slog.Int64("product_id", product.ID), slog.String("name", product.Name))

		return product, nil
	}

	product, err := s.client.UpdateProduct(ctx, existing.ID, form.input(), form.ImagePath)
	if err != nil {
		return nil, err
	}

	slog.Info("Product updated", slog.Int64("product_id", existing.ID))

	return product, nil
}

// Delete removes the product on the server and, when the server confirms with
// 204, from the local list.
func (s *productService) Delete(ctx context.Context, id int64) (bool, error) {

	ok, err := s.client.DeleteProduct(ctx, id)
	if err != nil {
		return false, err
	}

	if !ok {
		slog.Warn("Product deletion not confirmed", slog.Int64("product_id", id))

		return false, nil
	}

	s.products = slices.DeleteFunc(s.products, func(p models.Product) bool { return p.ID == id })

	slog.Info("Product deleted", slog.Int64("product_id", id))

	return true, nil
}

func (s *productService) Image(ctx context.Context, p models.Product) ([]byte, error) {
	if p.Image == "" {
		return nil, errors.NotFoundError("Product has no image")
	}

	return s.client.FetchImage(ctx, p.Image)
}
