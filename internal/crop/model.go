package crop

import (
	"strings"

	"agrimarket/internal/model"

	"github.com/shopspring/decimal"
)

const defaultLocation = "Farm Location"

// Input is the add/edit crop form.
type Input struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Quantity    int
	Description string
	Quality     string
	HarvestDate string
}

func (in Input) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return &ValidationError{Field: "name", Message: "Please enter a crop name."}
	case strings.TrimSpace(in.Category) == "":
		return &ValidationError{Field: "category", Message: "Please select a category."}
	case !in.Price.IsPositive():
		return &ValidationError{Field: "price", Message: "Please enter a valid price."}
	case in.Quantity <= 0:
		return &ValidationError{Field: "quantity", Message: "Please enter a valid quantity."}
	}
	return nil
}

type createRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
	Quality     string          `json:"quality"`
	HarvestDate string          `json:"harvestDate"`
	FarmerID    string          `json:"farmerId"`
	FarmerName  string          `json:"farmerName"`
	Location    string          `json:"location"`
	ImageURL    string          `json:"imageUrl"`
}

type updateRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
}

type statusRequest struct {
	Status model.CropStatus `json:"status"`
}

func location(farmer model.User) string {
	if v := farmer.Village(); v != "" {
		return v
	}
	return defaultLocation
}
