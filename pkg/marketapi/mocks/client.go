package mocks

import (
	"context"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	"github.com/stretchr/testify/mock"
)

// Client is a testify mock of marketapi.Client.
type Client struct {
	mock.Mock
}

// NewClient creates a Client mock whose expectations are asserted on cleanup.
func NewClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *Client {
	m := &Client{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func productsResult(ret mock.Arguments) ([]models.Product, error) {
	var products []models.Product
	if v := ret.Get(0); v != nil {
		products = v.([]models.Product)
	}

	return products, ret.Error(1)
}

func productResult(ret mock.Arguments) (*models.Product, error) {
	var product *models.Product
	if v := ret.Get(0); v != nil {
		product = v.(*models.Product)
	}

	return product, ret.Error(1)
}

func (m *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	return productsResult(m.Called(ctx))
}

func (m *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return productResult(m.Called(ctx, id))
}

func (m *Client) CreateProduct(ctx context.Context, in models.ProductInput, imagePath string) (*models.Product, error) {
	return productResult(m.Called(ctx, in, imagePath))
}

func (m *Client) UpdateProduct(ctx context.Context, id int64, in models.ProductInput, imagePath string) (*models.Product, error) {
	return productResult(m.Called(ctx, id, in, imagePath))
}

func (m *Client) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	ret := m.Called(ctx, id)

	return ret.Bool(0), ret.Error(1)
}

func (m *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	ret := m.Called(ctx)

	var orders []models.Order
	if v := ret.Get(0); v != nil {
		orders = v.([]models.Order)
	}

	return orders, ret.Error(1)
}

func (m *Client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	ret := m.Called(ctx, id)

	var order *models.Order
	if v := ret.Get(0); v != nil {
		order = v.(*models.Order)
	}

	return order, ret.Error(1)
}

func (m *Client) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *Client) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	ret := m.Called(ctx, id)

	return ret.Bool(0), ret.Error(1)
}

func (m *Client) FetchInvoicePDF(ctx context.Context, id int64) ([]byte, error) {
	ret := m.Called(ctx, id)

	var data []byte
	if v := ret.Get(0); v != nil {
		data = v.([]byte)
	}

	return data, ret.Error(1)
}

func (m *Client) ListStock(ctx context.Context) ([]models.Product, error) {
	return productsResult(m.Called(ctx))
}

func (m *Client) UpdateStock(ctx context.Context, id int64, op models.StockOperation, magnitude int) (*models.Product, error) {
	return productResult(m.Called(ctx, id, op, magnitude))
}

func (m *Client) SetMinStock(ctx context.Context, id int64, value int) (*models.Product, error) {
	return productResult(m.Called(ctx, id, value))
}

func (m *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	ret := m.Called(ctx, imageURL)

	var data []byte
	if v := ret.Get(0); v != nil {
		data = v.([]byte)
	}

	return data, ret.Error(1)
}
