package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Open reports whether the order still awaits fulfilment.
func (s OrderStatus) Open() bool {
	return s == OrderPending || s == OrderConfirmed || s == OrderShipped
}

func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

type Order struct {
	ID                  string          `json:"_id"`
	Buyer               Ref             `json:"buyer"`
	Farmer              Ref             `json:"farmer"`
	Crop                Ref             `json:"crop"`
	CropName            string          `json:"cropName"`
	CropPrice           decimal.Decimal `json:"cropPrice"`
	BuyerName           string          `json:"buyerName"`
	FarmerName          string          `json:"farmerName"`
	Quantity            int             `json:"quantity"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	Status              OrderStatus     `json:"status"`
	DeliveryAddress     string          `json:"deliveryAddress"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// ShortID is the last eight characters of the id, as shown in order tables.
func (o Order) ShortID() string {
	return ShortID(o.ID)
}

func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
