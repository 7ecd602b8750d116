package service

import (
	"context"
	"log/slog"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/health"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/pkg/marketapi"
)

type HealthChecker interface {
	Measure(ctx context.Context) health.Status
}

// Summary is what the Home page shows. Counts are -1 when their list could
// not be loaded; Problems carries the matching messages.
type Summary struct {
	Health   health.Status
	Products int
	LowStock int
	Unpaid   int
	Problems []string
}

type HomeService interface {
	Summary(ctx context.Context) Summary
}

type homeService struct {
	client  marketapi.Client
	checker HealthChecker
}

func NewHomeService(client marketapi.Client, checker HealthChecker) HomeService {
	return &homeService{client: client, checker: checker}
}

func (s *homeService) Summary(ctx context.Context) Summary {
	summary := Summary{Products: -1, LowStock: -1, Unpaid: -1}

	if s.checker != nil {
		summary.Health = s.checker.Measure(ctx)
	}

	products, err := s.client.ListProducts(ctx)
	if err != nil {
		summary.Problems = append(summary.Problems, errors.UserMessage(err))
	} else {
		summary.Products = len(products)
		summary.LowStock = 0

		for _, p := range products {
			if p.IsLowStock() {
				summary.LowStock++
			}
		}
	}

	orders, err := s.client.ListOrders(ctx)
	if err != nil {
		summary.Problems = append(summary.Problems, errors.UserMessage(err))
	} else {
		summary.Unpaid = 0

		for _, o := range orders {
			if !o.IsPaid() {
				summary.Unpaid++
			}
		}
	}

	slog.Debug("Home summary computed",
		slog.String("health", summary.Health.Status),
		slog.Int("products", summary.Products),
		slog.Int("low_stock", summary.LowStock),
		slog.Int("unpaid", summary.Unpaid),
	)

	return summary
}
