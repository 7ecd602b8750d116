package service_test

import (
	"context"
	"testing"

	appErrors "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/health"
	service "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/services"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/pkg/marketapi/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubChecker struct {
	status health.Status
}

func (s stubChecker) Measure(context.Context) health.Status {
	return s.status
}

func TestHomeSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Counts from loaded lists", func(t *testing.T) {
		mockClient := mocks.NewClient(t)
		homeService := service.NewHomeService(mockClient, stubChecker{status: health.Status{Status: "OK"}})
		mockClient.On("ListProducts", mock.Anything).Return(sampleProducts(), nil).Once()
		mockClient.On("ListOrders", mock.Anything).Return(sampleOrders(), nil).Once()

		summary := homeService.Summary(ctx)

		assert.True(t, summary.Health.OK())
		assert.Equal(t, 3, summary.Products)
		assert.Equal(t, 2, summary.LowStock)
		assert.Equal(t, 2, summary.Unpaid)
		assert.Empty(t, summary.Problems)
	})

	t.Run("Unreachable API", func(t *testing.T) {
		mockClient := mocks.NewClient(t)
		homeService := service.NewHomeService(mockClient, stubChecker{status: health.Status{Status: "Unavailable", Failures: map[string]string{"market-api": "connection refused"}}})
		mockClient.On("ListProducts", mock.Anything).Return(nil, appErrors.TransportError("Failed to load products")).Once()
		mockClient.On("ListOrders", mock.Anything).Return(nil, appErrors.TransportError("Failed to load invoices")).Once()

		summary := homeService.Summary(ctx)

		assert.False(t, summary.Health.OK())
		assert.Equal(t, -1, summary.Products)
		assert.Equal(t, -1, summary.LowStock)
		assert.Equal(t, -1, summary.Unpaid)
		assert.Len(t, summary.Problems, 2)
	})
}
