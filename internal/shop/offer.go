package shop

import "fmt"

// Offer binds a stock descriptor to a price. Offers are immutable once
// created; an absent offer is a nil *Offer.
type Offer struct {
	stock ItemDescriptor
	price float64
}

func NewOffer(stock ItemDescriptor, price float64) (*Offer, error) {
	if stock.IsZero() {
		return nil, fmt.Errorf("offer: empty stock")
	}
	if stock.Count < 0 {
		return nil, fmt.Errorf("offer: negative stock count %d", stock.Count)
	}
	if price < 0 {
		return nil, fmt.Errorf("offer: negative price %v", price)
	}
	return &Offer{stock: stock, price: price}, nil
}

// Stock returns the offer's stock. ItemDescriptor is a value type, so the
// caller always gets a copy and cannot mutate the canonical descriptor.
func (o *Offer) Stock() ItemDescriptor { return o.stock }

func (o *Offer) Amount() int { return o.stock.Count }

func (o *Offer) Price() float64 { return o.price }
