package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, the way the backend stores them.
	decimal.MarshalJSONWithoutQuotes = true
}

type CropStatus string

const (
	CropPending   CropStatus = "pending"
	CropAvailable CropStatus = "available"
	CropSoldOut   CropStatus = "sold_out"
	CropRejected  CropStatus = "rejected"
)

type Crop struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Status      CropStatus      `json:"status,omitempty"`
	Farmer      Ref             `json:"farmer"`
	FarmerName  string          `json:"farmerName,omitempty"`
	Description string          `json:"description,omitempty"`
	Quality     string          `json:"quality,omitempty"`
	Image       string          `json:"image,omitempty"`
	Location    string          `json:"location,omitempty"`
	HarvestDate string          `json:"harvestDate,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// FarmerDisplayName prefers the populated farmer over the snapshotted name.
func (c Crop) FarmerDisplayName() string {
	if c.Farmer.Name != "" {
		return c.Farmer.Name
	}
	return c.FarmerName
}
