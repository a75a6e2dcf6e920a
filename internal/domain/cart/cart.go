package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/xenking/shopaholics/internal/domain/product"
)

// Item is a product in the cart together with its quantity.
type Item struct {
	product.Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price * quantity for the line.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds at most one item per product id. Total and ItemCount are
// derived from Items and recomputed after every change.
type Cart struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Clone returns a deep copy of the item list.
func (c Cart) Clone() Cart {
	c.Items = slices.Clone(c.Items)
	return c
}

// AddItem increments the quantity of p if it is already in the cart,
// otherwise appends it with quantity 1.
func (c *Cart) AddItem(p product.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.Items[i].Quantity++
	} else {
		c.Items = append(c.Items, Item{Product: p, Quantity: 1})
	}
	c.recalculate()
}

// RemoveItem deletes the item with the given product id. Unknown ids are
// ignored.
func (c *Cart) RemoveItem(id string) {
	c.Items = slices.DeleteFunc(c.Items, func(it Item) bool {
		return it.ID == id
	})
	c.recalculate()
}

// UpdateQuantity sets the quantity of the item with the given product id.
// A quantity of zero or below removes the item.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}
	if i := c.index(id); i >= 0 {
		c.Items[i].Quantity = quantity
	}
	c.recalculate()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
	c.recalculate()
}

func (c *Cart) index(id string) int {
	return slices.IndexFunc(c.Items, func(it Item) bool {
		return it.ID == id
	})
}

func (c *Cart) recalculate() {
	total := decimal.Zero
	count := 0
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
		count += it.Quantity
	}
	c.Total = total
	c.ItemCount = count
}
