package order

import (
	"strings"

	"agrimarket/internal/model"

	"github.com/shopspring/decimal"
)

// Placement is a buyer's checkout form.
type Placement struct {
	Crop                model.Crop
	Quantity            int
	DeliveryAddress     string
	SpecialInstructions string
}

// Total is price × quantity.
func Total(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ValidatePlacement checks the form and reports only the first problem.
func ValidatePlacement(p Placement) error {
	if p.Quantity <= 0 {
		return invalid("quantity", "Please enter a valid quantity.")
	}
	if p.Quantity > p.Crop.Quantity {
		return invalid("quantity", "Only %d kg available.", p.Crop.Quantity)
	}
	if strings.TrimSpace(p.DeliveryAddress) == "" {
		return invalid("deliveryAddress", "Please enter a delivery address.")
	}
	return nil
}

type createRequest struct {
	CropID              string          `json:"cropId"`
	Quantity            int             `json:"quantity"`
	DeliveryAddress     string          `json:"deliveryAddress"`
	SpecialInstructions string          `json:"specialInstructions"`
	BuyerID             string          `json:"buyerId"`
	BuyerName           string          `json:"buyerName"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
}

type statusEvent struct {
	OrderID string            `json:"orderId"`
	From    model.OrderStatus `json:"from"`
	To      model.OrderStatus `json:"to"`
	ActorID string            `json:"actorId"`
}
