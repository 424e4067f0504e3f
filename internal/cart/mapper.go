package cart

import "github.com/shopspring/decimal"

type View struct {
	Items      []Item          `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// ToView renders the cart with its derived totals.
func ToView(c *Cart) View {
	if c == nil {
		c = &Cart{}
	}
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return View{
		Items:      items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
