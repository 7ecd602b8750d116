package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErrors "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/middleware"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/utils"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/utils/response"
)

// Client is the market backend as seen by the admin panel. Every failure is
// returned as an *errors.AppError.
type Client interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput, imagePath string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in models.ProductInput, imagePath string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)

	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) (bool, error)
	FetchInvoicePDF(ctx context.Context, id int64) ([]byte, error)

	ListStock(ctx context.Context) ([]models.Product, error)
	UpdateStock(ctx context.Context, id int64, op models.StockOperation, magnitude int) (*models.Product, error)
	SetMinStock(ctx context.Context, id int64, value int) (*models.Product, error)

	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

type Option func(*client)

// WithTransport replaces the round-tripper of the underlying http.Client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *client) {
		c.http.Transport = rt
	}
}

func WithImageTimeout(d time.Duration) Option {
	return func(c *client) {
		c.imageTimeout = d
	}
}

// WithStockPath points ListStock at a dedicated endpoint instead of the product list.
func WithStockPath(path string) Option {
	return func(c *client) {
		c.stockPath = path
	}
}

type client struct {
	baseURL      *url.URL
	http         *http.Client
	imageTimeout time.Duration
	stockPath    string
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) (Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", baseURL)
	}

	if timeout <= 0 {
		timeout = utils.DefaultAPITimeout
	}

	c := &client{
		baseURL:      parsed,
		http:         &http.Client{Timeout: timeout},
		imageTimeout: utils.DefaultImageTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) endpoint(format string, args ...any) string {
	return c.baseURL.String() + fmt.Sprintf(format, args...)
}

func (c *client) newRequest(ctx context.Context, method, target string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, appErrors.InternalError("Could not build the request").WithError(err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

// send performs req and returns the response when its status is 2xx. The
// caller closes the body. Failures are translated into AppErrors using action
// as the user-facing message.
func (c *client) send(req *http.Request, action string) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		middleware.LoggerFromContext(req.Context()).Warn("API request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)

		return nil, appErrors.TransportError(action).WithDetail(transportDetail(err)).WithError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		appErr := appErrors.HTTPStatusError(action, resp.StatusCode).WithDetail(response.ErrorDetail(resp.StatusCode, body))

		middleware.LoggerFromContext(req.Context()).Warn("API returned an error status",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
		)

		return nil, appErr
	}

	return resp, nil
}

func transportDetail(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "The server did not answer in time"
	}

	if errors.Is(err, context.Canceled) {
		return "The request was cancelled"
	}

	return "The server could not be reached"
}

// doJSON sends payload (if any) as JSON and decodes a JSON reply into out (if any).
func (c *client) doJSON(ctx context.Context, method, target string, payload any, header http.Header, out any, action string) (*http.Response, error) {
	var body io.Reader
	contentType := ""

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, appErrors.InternalError(action).WithError(err)
		}

		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, target, body, contentType)
	if err != nil {
		return nil, err
	}

	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.send(req, action)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := utils.DecodeJSON(resp.Body, out, req.URL.Path); err != nil {
			return nil, appErrors.DataShapeError(action).WithDetail("The server sent an unexpected response").WithError(err)
		}
	}

	return resp, nil
}

// ListProducts implements Client.
func (c *client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product

	if _, err := c.doJSON(ctx, http.MethodGet, c.endpoint("/products/"), nil, nil, &products, "Failed to load products"); err != nil {
		return nil, err
	}

	return products, nil
}

// GetProduct implements Client.
func (c *client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, _, err := c.getProduct(ctx, id, "Failed to load the product")

	return product, err
}

func (c *client) getProduct(ctx context.Context, id int64, action string) (*models.Product, string, error) {
	var product models.Product

	resp, err := c.doJSON(ctx, http.MethodGet, c.endpoint("/products/%d/", id), nil, nil, &product, action)
	if err != nil {
		return nil, "", err
	}

	return &product, resp.Header.Get("ETag"), nil
}

// CreateProduct implements Client.
func (c *client) CreateProduct(ctx context.Context, in models.ProductInput, imagePath string) (*models.Product, error) {
	in = in.WithCreateDefaults()

	return c.writeProduct(ctx, http.MethodPost, c.endpoint("/products/"), in, imagePath, "Failed to add the product")
}

// UpdateProduct implements Client.
func (c *client) UpdateProduct(ctx context.Context, id int64, in models.ProductInput, imagePath string) (*models.Product, error) {
	return c.writeProduct(ctx, http.MethodPatch, c.endpoint("/products/%d/", id), in, imagePath, "Failed to update the product")
}

func (c *client) writeProduct(ctx context.Context, method, target string, in models.ProductInput, imagePath, action string) (*models.Product, error) {
	var product models.Product

	if imagePath == "" {
		if _, err := c.doJSON(ctx, method, target, in, nil, &product, action); err != nil {
			return nil, err
		}

		return &product, nil
	}

	body, contentType, err := multipartBody(in.FormFields(), imagePath)
	if err != nil {
		return nil, appErrors.UserInputError("Could not read the selected image").WithDetail(err.Error()).WithError(err)
	}

	req, err := c.newRequest(ctx, method, target, body, contentType)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(req, action)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := utils.DecodeJSON(resp.Body, &product, req.URL.Path); err != nil {
		return nil, appErrors.DataShapeError(action).WithDetail("The server sent an unexpected response").WithError(err)
	}

	return &product, nil
}

// DeleteProduct implements Client. It reports true only for 204 No Content.
func (c *client) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	resp, err := c.doJSON(ctx, http.MethodDelete, c.endpoint("/products/%d/", id), nil, nil, nil, "Failed to delete the product")
	if err != nil {
		return false, err
	}

	return resp.StatusCode == http.StatusNoContent, nil
}

// ListOrders implements Client.
func (c *client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order

	if _, err := c.doJSON(ctx, http.MethodGet, c.endpoint("/orders/"), nil, nil, &orders, "Failed to load invoices"); err != nil {
		return nil, err
	}

	return orders, nil
}

// GetOrder implements Client.
func (c *client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order

	if _, err := c.doJSON(ctx, http.MethodGet, c.endpoint("/orders/%d/", id), nil, nil, &order, "Failed to load the invoice details"); err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateOrderStatus implements Client.
func (c *client) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	payload := map[string]string{"status": string(status)}

	_, err := c.doJSON(ctx, http.MethodPatch, c.endpoint("/orders/%d/", id), payload, nil, nil, "Failed to update the invoice status")

	return err
}

// DeleteOrder implements Client. It reports true only for 204 No Content.
func (c *client) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	resp, err := c.doJSON(ctx, http.MethodDelete, c.endpoint("/orders/%d/", id), nil, nil, nil, "Failed to delete the invoice")
	if err != nil {
		return false, err
	}

	return resp.StatusCode == http.StatusNoContent, nil
}

// FetchInvoicePDF implements Client. Anything but a 200 carrying
// application/pdf yields no bytes and a NO_DOCUMENT error.
func (c *client) FetchInvoicePDF(ctx context.Context, id int64) ([]byte, error) {
	const action = "The server did not return a PDF invoice"

	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint("/orders/%d/pdf/", id), nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.TransportError(action).WithDetail(transportDetail(err)).WithError(err)
	}
	defer resp.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if resp.StatusCode != http.StatusOK || mediaType != "application/pdf" {
		middleware.LoggerFromContext(ctx).Warn("Invoice PDF unavailable",
			slog.Int64("order_id", id),
			slog.Int("status", resp.StatusCode),
			slog.String("content_type", resp.Header.Get("Content-Type")),
		)

		return nil, appErrors.NoDocumentError(action, resp.StatusCode).WithDetail(fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.TransportError(action).WithDetail("The download was interrupted").WithError(err)
	}

	return data, nil
}

// ListStock implements Client. Without a stock path no request is made and a
// NOT_FOUND error tells the caller to read the product list instead.
func (c *client) ListStock(ctx context.Context) ([]models.Product, error) {
	if c.stockPath == "" {
		return nil, appErrors.NotFoundError("Failed to load stock").WithDetail("No stock endpoint is configured")
	}

	var products []models.Product

	target := c.endpoint("/%s/", strings.Trim(c.stockPath, "/"))
	if _, err := c.doJSON(ctx, http.MethodGet, target, nil, nil, &products, "Failed to load stock"); err != nil {
		return nil, err
	}

	return products, nil
}

// UpdateStock implements Client. The quantity is read, adjusted locally and
// written back; the ETag of the read guards the write with If-Match so a
// concurrent change surfaces as a CONFLICT instead of being overwritten.
func (c *client) UpdateStock(ctx context.Context, id int64, op models.StockOperation, magnitude int) (*models.Product, error) {
	const action = "Failed to update stock"

	current, etag, err := c.getProduct(ctx, id, action)
	if err != nil {
		return nil, err
	}

	quantity, err := op.Apply(current.Stock, magnitude)
	if err != nil {
		return nil, appErrors.UserInputError(action).WithDetail(err.Error()).WithError(err)
	}

	header := http.Header{}
	if etag != "" {
		header.Set("If-Match", etag)
	}

	var product models.Product

	_, err = c.doJSON(ctx, http.MethodPatch, c.endpoint("/products/%d/", id), models.ProductInput{Stock: &quantity}, header, &product, action)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrCodeConflict) {
			appErr, _ := appErrors.IsAppError(err)

			return nil, appErr.WithDetail("The quantity changed on the server. Refresh and try again.")
		}

		return nil, err
	}

	return &product, nil
}

// SetMinStock implements Client.
func (c *client) SetMinStock(ctx context.Context, id int64, value int) (*models.Product, error) {
	var product models.Product

	if _, err := c.doJSON(ctx, http.MethodPatch, c.endpoint("/products/%d/", id), models.ProductInput{MinStock: &value}, nil, &product, "Failed to set the minimum stock"); err != nil {
		return nil, err
	}

	return &product, nil
}

// FetchImage implements Client. Relative URLs resolve against the API base URL.
func (c *client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	const action = "Image unavailable"

	ref, err := url.Parse(imageURL)
	if err != nil || imageURL == "" {
		return nil, appErrors.DataShapeError(action).WithDetail("invalid image URL")
	}

	ctx, cancel := utils.WithTimeout(ctx, c.imageTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL.ResolveReference(ref).String(), nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.send(req, action)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.TransportError(action).WithDetail("The download was interrupted").WithError(err)
	}

	return data, nil
}
