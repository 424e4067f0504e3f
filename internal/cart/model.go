package cart

import "github.com/shopspring/decimal"

// Item is one cart line. Name, Price and ImageURL are copied from the
// product at add time for display; checkout re-prices from the catalog.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Quantity  int             `json:"quantity"`
}

type ProductRef struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

type Cart struct {
	Items []Item `json:"items"`
}

func (c *Cart) index(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges into the existing line for the product, if any.
// Quantities below 1 are treated as 1.
func (c *Cart) AddItem(p ProductRef, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	if i := c.index(p.ID); i >= 0 {
		c.Items[i].Quantity += quantity
		c.Items[i].Name = p.Name
		c.Items[i].Price = p.Price
		c.Items[i].ImageURL = p.ImageURL
		return
	}

	c.Items = append(c.Items, Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  quantity,
	})
}

// UpdateItemQuantity sets the quantity of a line; qty <= 0 removes it.
// Unknown product ids are ignored.
func (c *Cart) UpdateItemQuantity(productID string, qty int) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.RemoveItem(productID)
		return
	}
	c.Items[i].Quantity = qty
}

func (c *Cart) RemoveItem(productID string) {
	if i := c.index(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
