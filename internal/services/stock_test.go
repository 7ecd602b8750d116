package service_test

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	appErrors "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	service "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/services"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/testutils"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/pkg/marketapi"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/pkg/marketapi/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func loadedStockService(t *testing.T) (service.StockService, *mocks.Client) {
	t.Helper()

	mockClient := mocks.NewClient(t)
	stockService := service.NewStockService(mockClient)
	mockClient.On("ListStock", mock.Anything).Return(sampleProducts(), nil).Once()
	require.NoError(t, stockService.Reload(context.Background()))

	return stockService, mockClient
}

func TestStockReload(t *testing.T) {
	ctx := context.Background()

	t.Run("Falls back to product list", func(t *testing.T) {
		mockClient := mocks.NewClient(t)
		stockService := service.NewStockService(mockClient)
		mockClient.On("ListStock", mock.Anything).Return(nil, appErrors.NotFoundError("Failed to load stock")).Once()
		mockClient.On("ListProducts", mock.Anything).Return(sampleProducts(), nil).Once()

		require.NoError(t, stockService.Reload(ctx))
		assert.Len(t, stockService.Items(), 3)
	})

	t.Run("Both failing keeps previous rows", func(t *testing.T) {
		stockService, mockClient := loadedStockService(t)
		mockClient.On("ListStock", mock.Anything).Return(nil, appErrors.HTTPStatusError("Failed to load stock", http.StatusBadGateway)).Once()
		mockClient.On("ListProducts", mock.Anything).Return(nil, appErrors.HTTPStatusError("Failed to load products", http.StatusBadGateway)).Once()

		assert.Error(t, stockService.Reload(ctx))
		assert.Len(t, stockService.Items(), 3)
	})

	t.Run("Unreachable server is not asked twice", func(t *testing.T) {
		stockService, mockClient := loadedStockService(t)
		mockClient.On("ListStock", mock.Anything).Return(nil, appErrors.TransportError("Failed to load stock")).Once()

		err := stockService.Reload(ctx)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeTransport))
		mockClient.AssertNotCalled(t, "ListProducts", mock.Anything)
		assert.Len(t, stockService.Items(), 3)
	})

	t.Run("Product list is read once without a stock endpoint", func(t *testing.T) {
		var requests atomic.Int32

		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/products/", func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		client, err := marketapi.NewClient(testutils.NewAPIServer(t, mux), time.Second)
		require.NoError(t, err)

		err = service.NewStockService(client).Reload(testutils.QuietContext())

		assert.Error(t, err)
		assert.Equal(t, int32(1), requests.Load())
	})
}

func TestStockFilters(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		filter  service.StockFilter
		wantIDs []int64
	}{
		{name: "Everything", filter: service.StockAll, wantIDs: []int64{1, 2, 3}},
		{name: "Category text", query: "TEA", filter: service.StockAll, wantIDs: []int64{1, 3}},
		{name: "Id text", query: "2", filter: service.StockAll, wantIDs: []int64{2}},
		{name: "Low quantity", filter: service.StockLow, wantIDs: []int64{2, 3}},
		{name: "Unavailable", filter: service.StockUnavailable, wantIDs: []int64{2}},
		{name: "Text and low", query: "mint", filter: service.StockLow, wantIDs: []int64{3}},
	}

	stockService, _ := loadedStockService(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stockService.SetQuery(tt.query)
			stockService.SetFilter(tt.filter)

			ids := []int64{}
			for _, p := range stockService.Filtered() {
				ids = append(ids, p.ID)

				if tt.filter == service.StockLow {
					assert.LessOrEqual(t, p.Stock, p.MinStock)
				}
				if tt.filter == service.StockUnavailable {
					assert.Equal(t, 0, p.Stock)
				}
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStockChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("Decrease floors at zero", func(t *testing.T) {
		stockService, mockClient := loadedStockService(t)
		mockClient.On("UpdateStock", mock.Anything, int64(1), models.StockDecrement, 10).Return(&models.Product{ID: 1, Name: "Green tea", Stock: 0, MinStock: 2}, nil).Once()

		product, err := stockService.Decrease(ctx, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, 0, product.Stock)
		assert.Equal(t, 0, stockService.Items()[0].Stock)
	})

	t.Run("Increase", func(t *testing.T) {
		stockService, mockClient := loadedStockService(t)
		mockClient.On("UpdateStock", mock.Anything, int64(2), models.StockIncrement, 4).Return(&models.Product{ID: 2, Stock: 4, MinStock: 3}, nil).Once()

		product, err := stockService.Increase(ctx, 2, 4)

		require.NoError(t, err)
		assert.Equal(t, 4, product.Stock)
	})

	t.Run("Non-positive magnitude never reaches the server", func(t *testing.T) {
		stockService, _ := loadedStockService(t)

		for _, magnitude := range []int{0, -3} {
			_, err := stockService.Increase(ctx, 1, magnitude)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUserInput))

			_, err = stockService.Decrease(ctx, 1, magnitude)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUserInput))
		}
	})

	t.Run("Conflict is surfaced", func(t *testing.T) {
		stockService, mockClient := loadedStockService(t)
		mockClient.On("UpdateStock", mock.Anything, int64(1), models.StockIncrement, 1).Return(nil, appErrors.ConflictError("Failed to update stock", 412)).Once()

		_, err := stockService.Increase(ctx, 1, 1)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeConflict))
		assert.Equal(t, 5, stockService.Items()[0].Stock)
	})

	t.Run("Minimum accepts zero", func(t *testing.T) {
		stockService, mockClient := loadedStockService(t)
		mockClient.On("SetMinStock", mock.Anything, int64(3), 0).Return(&models.Product{ID: 3, Stock: 4, MinStock: 0}, nil).Once()

		product, err := stockService.SetMinimum(ctx, 3, 0)

		require.NoError(t, err)
		assert.Equal(t, 0, product.MinStock)
	})

	t.Run("Negative minimum rejected", func(t *testing.T) {
		stockService, _ := loadedStockService(t)

		_, err := stockService.SetMinimum(ctx, 3, -1)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUserInput))
	})

	t.Run("Amounts above the limit never reach the server", func(t *testing.T) {
		stockService, _ := loadedStockService(t)

		for _, amount := range []int{service.MaxStockAmount + 1, math.MaxInt} {
			_, err := stockService.Increase(ctx, 1, amount)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUserInput))

			_, err = stockService.Decrease(ctx, 1, amount)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUserInput))

			_, err = stockService.SetMinimum(ctx, 1, amount)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUserInput))
		}

		assert.Equal(t, 5, stockService.Items()[0].Stock)
	})

	t.Run("Limit itself is accepted", func(t *testing.T) {
		stockService, mockClient := loadedStockService(t)
		mockClient.On("UpdateStock", mock.Anything, int64(1), models.StockIncrement, service.MaxStockAmount).Return(&models.Product{ID: 1, Stock: 100005, MinStock: 2}, nil).Once()

		product, err := stockService.Increase(ctx, 1, service.MaxStockAmount)

		require.NoError(t, err)
		assert.Equal(t, 100005, product.Stock)
	})
}

func TestParseAmount(t *testing.T) {
	n, err := service.ParseAmount(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = service.ParseAmount("twelve")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUserInput))
}

func TestStockExport(t *testing.T) {
	stockService, _ := loadedStockService(t)

	var buf bytes.Buffer
	require.NoError(t, stockService.Export(&buf, stockService.Items()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"ID", "Name", "Category", "Price", "Quantity", "Minimum", "Updated"}, rows[0])
	assert.Equal(t, "White sugar", rows[2][1])
	assert.Equal(t, "0", rows[2][4])

	lowStyle, err := f.GetCellStyle("Stock", "A3")
	require.NoError(t, err)
	plainStyle, err := f.GetCellStyle("Stock", "A2")
	require.NoError(t, err)
	assert.NotEqual(t, plainStyle, lowStyle)
}
