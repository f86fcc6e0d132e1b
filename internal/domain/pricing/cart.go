package pricing

import "errors"

var (
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrNegativeUnitPrice   = errors.New("unit price cannot be negative")
	ErrInvalidLineDiscount = errors.New("line discount must be between 0 and 100")
)

// CartLine is one cart row as supplied by the storefront. The line discount
// is the product-level promotion already known to the caller.
type CartLine struct {
	ProductID           string
	UnitPriceCents      int64
	Quantity            int
	LineDiscountPercent float64
}

func NewCartLine(productID string, unitPriceCents int64, quantity int, lineDiscountPercent float64) (CartLine, error) {
	line := CartLine{
		ProductID:           productID,
		UnitPriceCents:      unitPriceCents,
		Quantity:            quantity,
		LineDiscountPercent: lineDiscountPercent,
	}
	if err := line.Validate(); err != nil {
		return CartLine{}, err
	}
	return line, nil
}

func (l CartLine) Validate() error {
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if l.UnitPriceCents < 0 {
		return ErrNegativeUnitPrice
	}
	if l.LineDiscountPercent < 0 || l.LineDiscountPercent > 100 {
		return ErrInvalidLineDiscount
	}
	return nil
}

// lineTotalCents applies the line discount to the unit price before
// multiplying by quantity, truncating fractional cents.
func (l CartLine) lineTotalCents() int64 {
	discounted := float64(l.UnitPriceCents) * (1 - l.LineDiscountPercent/100)
	return int64(discounted) * int64(l.Quantity)
}

// CartSnapshot is the ordered cart at quote time. Not persisted here; the
// caller owns the cart.
type CartSnapshot []CartLine

func (c CartSnapshot) Validate() error {
	for _, line := range c {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SubtotalCents sums the discounted line totals.
func (c CartSnapshot) SubtotalCents() int64 {
	var subtotal int64
	for _, line := range c {
		subtotal += line.lineTotalCents()
	}
	return subtotal
}
