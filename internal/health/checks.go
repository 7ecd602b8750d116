package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthHttp "github.com/hellofresh/health-go/v5/checks/http"
)

const apiCheckName = "market-api"

// Status is the backend reachability shown on the Home page.
type Status struct {
	Status   string
	Failures map[string]string
}

func (s Status) OK() bool {
	return s.Status == string(health.StatusOK)
}

// Checker measures whether the market API answers.
type Checker struct {
	h *health.Health
}

func NewChecker(cfg *config.Config, version string) (*Checker, error) {

	timeout := cfg.API.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	h, err := health.New(
		health.WithComponent(health.Component{

			Name:    cfg.Otel.ServiceName,
			Version: version,
		}),
		health.WithChecks(
			health.Config{
				Name:      apiCheckName,
				Timeout:   timeout,
				SkipOnErr: false,
				Check: healthHttp.New(healthHttp.Config{
					URL:            strings.TrimRight(cfg.API.BaseURL, "/") + "/products/",
					RequestTimeout: timeout,
				}),
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return &Checker{h: h}, nil
}

func (c *Checker) Measure(ctx context.Context) Status {
	check := c.h.Measure(ctx)

	return Status{
		Status:   string(check.Status),
		Failures: check.Failures,
	}
}
