package models_test

import (
	"encoding/json"
	"testing"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderUnmarshalAlternateFields(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantClient string
		wantDate   string
		wantTotal  string
		wantItems  int
	}{
		{
			name:       "Canonical names",
			body:       `{"id": 7, "client_name": "Amina", "total": "120.50", "date": "2024-03-05T14:07:09Z", "status": "paid", "items": []}`,
			wantClient: "Amina",
			wantDate:   "2024-03-05T14:07:09Z",
			wantTotal:  "120.50",
		},
		{
			name:       "Customer name and total_price",
			body:       `{"id": 8, "customer_name": "Youssef", "total_price": 99.9, "created_at": "2024-03-06", "status": "pending"}`,
			wantClient: "Youssef",
			wantDate:   "2024-03-06",
			wantTotal:  "99.90",
		},
		{
			name:       "Plain name, order_date and order_items",
			body:       `{"id": "9", "client_name": "", "name": "Hajar", "order_date": "2024-03-07 09:00", "order_items": [{"product": 3, "qty": 2, "unit_price": "5"}]}`,
			wantClient: "Hajar",
			wantDate:   "2024-03-07 09:00",
			wantTotal:  "10.00",
			wantItems:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order models.Order

			require.NoError(t, json.Unmarshal([]byte(tt.body), &order))
			assert.Equal(t, tt.wantClient, order.ClientName)
			assert.Equal(t, tt.wantDate, order.Date)
			assert.Equal(t, tt.wantTotal, order.TotalText())
			assert.Len(t, order.Items, tt.wantItems)
		})
	}
}

func TestOrderUnmarshalRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Items is not a list", body: `{"id": 1, "items": "nope"}`},
		{name: "Item is not an object", body: `{"id": 1, "items": [4]}`},
		{name: "Record is not an object", body: `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order models.Order

			assert.Error(t, json.Unmarshal([]byte(tt.body), &order))
		})
	}
}

func TestOrderUnmarshalMalformedValuesFallBack(t *testing.T) {
	t.Run("Unreadable total is computed from lines", func(t *testing.T) {
		var order models.Order

		require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "total": "twelve", "items": [{"product": 3, "quantity": 2, "price": "4"}]}`), &order))
		assert.Nil(t, order.Total)
		assert.Equal(t, "8.00", order.TotalText())
	})

	t.Run("Unreadable quantity and price become zero", func(t *testing.T) {
		var order models.Order

		require.NoError(t, json.Unmarshal([]byte(`{"id": 2, "items": [{"product": 3, "quantity": "a few", "price": "cheap"}]}`), &order))
		require.Len(t, order.Items, 1)
		assert.Equal(t, 0, order.Items[0].Quantity)
		assert.True(t, order.Items[0].UnitPrice.IsZero())
	})

	t.Run("One odd order does not hide the others", func(t *testing.T) {
		var orders []models.Order

		body := `[{"id": 1, "client_name": "Amina", "items": []}, {"id": "abc", "client_name": "Youssef", "items": [{"product": "Tea", "quantity": 1, "price": 5}]}]`
		require.NoError(t, json.Unmarshal([]byte(body), &orders))
		require.Len(t, orders, 2)
		assert.Equal(t, int64(0), orders[1].ID)
		assert.Equal(t, "Youssef", orders[1].ClientName)
		assert.Equal(t, "5.00", orders[1].TotalText())
	})
}

func TestLineItemProductResolution(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantID   int64
		wantName string
	}{
		{name: "Embedded object", body: `{"product": {"id": 4, "name": "Green tea"}, "quantity": 1, "price": 3}`, wantID: 4, wantName: "Green tea"},
		{name: "Bare identifier", body: `{"product": 5, "quantity": 1, "price": 3}`, wantID: 5},
		{name: "Product id field", body: `{"product_id": 6, "quantity": 1, "price": 3}`, wantID: 6},
		{name: "Product name wins over embedded name", body: `{"product": {"id": 4, "name": "Tea"}, "product_name": "Mint tea"}`, wantID: 4, wantName: "Mint tea"},
		{name: "Literal name field", body: `{"product": 8, "name": "Sugar 1kg"}`, wantID: 8, wantName: "Sugar 1kg"},
		{name: "Product given as text", body: `{"product": "Tea", "quantity": 1, "price": 3}`, wantName: "Tea"},
		{name: "Numeric text is an identifier", body: `{"product": "9", "quantity": 1}`, wantID: 9},
		{name: "Product name wins over product text", body: `{"product": "Tea", "product_name": "Mint tea"}`, wantName: "Mint tea"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item models.LineItem

			require.NoError(t, json.Unmarshal([]byte(tt.body), &item))
			assert.Equal(t, tt.wantID, item.ProductID)
			assert.Equal(t, tt.wantName, item.ProductName)
		})
	}
}

func TestOrderTotals(t *testing.T) {
	order := models.Order{
		Items: []models.LineItem{
			{Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")},
			{Quantity: 2, UnitPrice: decimal.RequireFromString("10")},
		},
	}

	t.Run("Computed from lines", func(t *testing.T) {
		assert.Equal(t, "7.50", order.Items[0].LineTotal().StringFixed(2))
		assert.Equal(t, "27.50", order.GrandTotal().StringFixed(2))
	})

	t.Run("Server total wins", func(t *testing.T) {
		withTotal := order
		total := decimal.RequireFromString("30")
		withTotal.Total = &total

		assert.Equal(t, "30.00", withTotal.TotalText())
	})

	t.Run("Nothing known", func(t *testing.T) {
		assert.Empty(t, models.Order{}.TotalText())
	})
}

func TestOrderStatus(t *testing.T) {
	tests := []struct {
		status      string
		wantPaid    bool
		wantToggled models.OrderStatus
	}{
		{status: "paid", wantPaid: true, wantToggled: models.OrderStatusPending},
		{status: "PAID", wantPaid: true, wantToggled: models.OrderStatusPending},
		{status: "pending", wantPaid: false, wantToggled: models.OrderStatusPaid},
		{status: "", wantPaid: false, wantToggled: models.OrderStatusPaid},
		{status: "paid ", wantPaid: false, wantToggled: models.OrderStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			order := models.Order{Status: tt.status}

			assert.Equal(t, tt.wantPaid, order.IsPaid())
			assert.Equal(t, tt.wantToggled, order.ToggledStatus())
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-05 14:07", models.FormatDate("2024-03-05T14:07:09Z"))
	assert.Equal(t, "2024-03-05 14:07", models.FormatDate("2024-03-05T14:07:09.123456+01:00"))
	assert.Equal(t, "2024-03-05 00:00", models.FormatDate("2024-03-05"))
	assert.Equal(t, "not a date at al", models.FormatDate("not a date at all"))
	assert.Empty(t, models.FormatDate(""))
}
