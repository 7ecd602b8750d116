package models

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	Image       string          `json:"image,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

// UnmarshalJSON accepts the alternate field names some serializers emit
// (quantity, min, unit_price, modified) and prices sent as strings.
func (p *Product) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}

	return p.fromFields(f)
}

func (p *Product) fromFields(f fields) error {
	id, err := f.integer("id", "pk")
	if err != nil {
		return err
	}

	price, _, err := f.decimal("price", "unit_price")
	if err != nil {
		return err
	}

	stock, err := f.integer("stock", "quantity")
	if err != nil {
		return err
	}

	minStock, err := f.integer("min_stock", "min")
	if err != nil {
		return err
	}

	*p = Product{
		ID:          id,
		Name:        f.text("name"),
		Price:       price,
		Category:    f.text("category"),
		Description: f.text("description"),
		Stock:       int(stock),
		MinStock:    int(minStock),
		Image:       f.text("image"),
		UpdatedAt:   f.text("updated_at", "modified", "created_at"),
	}

	return nil
}

// IsLowStock is true when the quantity is at or under the alert threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

func (p Product) IsUnavailable() bool {
	return p.Stock == 0
}

// ProductInput carries a create or partial update. Nil fields are not sent.
type ProductInput struct {
	Name        *string `json:"name,omitempty"`
	Price       *string `json:"price,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	MinStock    *int    `json:"min_stock,omitempty"`
}

// WithCreateDefaults fills the quantities a new product starts with.
func (in ProductInput) WithCreateDefaults() ProductInput {
	zero := 0
	if in.Description == nil {
		empty := ""
		in.Description = &empty
	}
	if in.Stock == nil {
		in.Stock = &zero
	}
	if in.MinStock == nil {
		minStock := 0
		in.MinStock = &minStock
	}

	return in
}

type FormField struct {
	Name  string
	Value string
}

// FormFields lists the set fields in a stable order for multipart bodies.
func (in ProductInput) FormFields() []FormField {
	var out []FormField

	add := func(name string, v *string) {
		if v != nil {
			out = append(out, FormField{Name: name, Value: *v})
		}
	}
	addInt := func(name string, v *int) {
		if v != nil {
			out = append(out, FormField{Name: name, Value: strconv.Itoa(*v)})
		}
	}

	add("name", in.Name)
	add("price", in.Price)
	add("category", in.Category)
	add("description", in.Description)
	addInt("stock", in.Stock)
	addInt("min_stock", in.MinStock)

	return out
}

type StockOperation string

const (
	StockIncrement StockOperation = "+"
	StockDecrement StockOperation = "-"
)

// Apply computes the new quantity. Decrements floor at zero and increments
// that would overflow are rejected.
func (op StockOperation) Apply(current, magnitude int) (int, error) {
	if magnitude < 0 {
		return 0, fmt.Errorf("negative stock change %d", magnitude)
	}

	switch op {
	case StockIncrement:
		if current > math.MaxInt-magnitude {
			return 0, fmt.Errorf("stock change %d is too large", magnitude)
		}

		return current + magnitude, nil
	case StockDecrement:
		return max(0, current-magnitude), nil
	}

	return 0, fmt.Errorf("unknown stock operation %q", string(op))
}
