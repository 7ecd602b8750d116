package models

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusPending OrderStatus = "pending"
)

// IsPaidStatus compares the lower-cased status to the literal "paid".
func IsPaidStatus(status string) bool {
	return strings.ToLower(status) == string(OrderStatusPaid)
}

type Order struct {
	ID         int64            `json:"id"`
	ClientName string           `json:"client_name"`
	Total      *decimal.Decimal `json:"total,omitempty"`
	Date       string           `json:"date"`
	Status     string           `json:"status"`
	Items      []LineItem       `json:"items"`
}

// UnmarshalJSON only fails when the record or its item list has the wrong
// shape; malformed values fall back to defaults so one bad order does not
// hide the rest of the list.
func (o *Order) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}

	out := Order{
		ID:         f.integerOr("id", "pk"),
		ClientName: f.text("client_name", "customer_name", "name"),
		Date:       f.text("date", "created_at", "order_date"),
		Status:     f.text("status"),
	}

	if total, ok := f.decimalOr("total", "total_price"); ok {
		out.Total = &total
	}

	items, err := lineItemsFrom(f)
	if err != nil {
		return err
	}
	out.Items = items

	*o = out

	return nil
}

func lineItemsFrom(f fields) ([]LineItem, error) {
	var raw []any
	for _, key := range []string{"items", "order_items"} {
		v, ok := f[key]
		if !ok || v == nil {
			continue
		}

		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("field %s: expected a list", key)
		}

		if len(list) > 0 {
			raw = list

			break
		}
	}

	items := make([]LineItem, 0, len(raw))
	for i, v := range raw {
		itemFields, ok := asFields(v)
		if !ok {
			return nil, fmt.Errorf("item %d: expected an object", i)
		}

		var item LineItem
		item.fromFields(itemFields)

		items = append(items, item)
	}

	return items, nil
}

func (o Order) IsPaid() bool {
	return IsPaidStatus(o.Status)
}

// ToggledStatus is the status a paid/unpaid switch moves the order to.
func (o Order) ToggledStatus() OrderStatus {
	if IsPaidStatus(strings.TrimSpace(o.Status)) {
		return OrderStatusPending
	}

	return OrderStatusPaid
}

func (o Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.LineTotal())
	}

	return sum
}

// GrandTotal prefers the server total and falls back to the sum of lines.
func (o Order) GrandTotal() decimal.Decimal {
	if o.Total != nil {
		return *o.Total
	}

	return o.ItemsTotal()
}

// TotalText is empty when neither a server total nor items are known.
func (o Order) TotalText() string {
	if o.Total == nil && len(o.Items) == 0 {
		return ""
	}

	return o.GrandTotal().StringFixed(2)
}

func (o Order) DisplayDate() string {
	return FormatDate(o.Date)
}

type LineItem struct {
	ProductID   int64           `json:"product_id,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}

	li.fromFields(f)

	return nil
}

// fromFields resolves the product from an embedded object, a bare id or
// product_id, and the name from product_name, the embedded object or name.
// A product given as text that is not an id is taken as the name.
func (li *LineItem) fromFields(f fields) {
	out := LineItem{
		Description: f.text("description"),
	}

	switch p := f["product"].(type) {
	case map[string]any:
		embedded := fields(p)

		out.ProductID = embedded.integerOr("id", "pk")
		out.ProductName = embedded.text("name")
	case nil:
	default:
		id, err := f.integer("product")
		if err != nil {
			name, ok := p.(string)
			if !ok {
				slog.Warn("Ignoring malformed field", slog.String("field", "product"), slog.String("error", err.Error()))
			}
			out.ProductName = strings.TrimSpace(name)
		}

		out.ProductID = id
	}

	if out.ProductID == 0 {
		out.ProductID = f.integerOr("product_id")
	}

	if name := f.text("product_name"); name != "" {
		out.ProductName = name
	} else if out.ProductName == "" {
		out.ProductName = f.text("name")
	}

	out.Quantity = int(f.integerOr("quantity", "qty"))

	out.UnitPrice, _ = f.decimalOr("price", "unit_price")

	*li = out
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
