package stats

import (
	"sort"

	"agrimarket/internal/model"

	"github.com/shopspring/decimal"
)

const RecentActivityLimit = 5

type Buyer struct {
	Total     int
	Completed int
	Pending   int
	Spent     decimal.Decimal
}

type Farmer struct {
	TotalCrops  int
	TotalOrders int
	Earnings    decimal.Decimal
	Pending     int
}

type Admin struct {
	TotalUsers   int
	Farmers      int
	Buyers       int
	TotalCrops   int
	PendingCrops int
	TotalOrders  int
	Revenue      decimal.Decimal
}

func ForBuyer(orders []model.Order) Buyer {
	b := Buyer{Total: len(orders), Spent: decimal.Zero}
	for _, o := range orders {
		switch {
		case o.Status == model.OrderDelivered:
			b.Completed++
			b.Spent = b.Spent.Add(o.TotalAmount)
		case o.Status.Open():
			b.Pending++
		}
	}
	return b
}

func ForFarmer(crops []model.Crop, orders []model.Order) Farmer {
	f := Farmer{TotalCrops: len(crops), TotalOrders: len(orders), Earnings: decimal.Zero}
	for _, o := range orders {
		switch {
		case o.Status == model.OrderDelivered:
			f.Earnings = f.Earnings.Add(o.TotalAmount)
		case o.Status.Open():
			f.Pending++
		}
	}
	return f
}

func ForAdmin(users []model.User, crops, pending []model.Crop, orders []model.Order) Admin {
	a := Admin{
		TotalUsers:   len(users),
		TotalCrops:   len(crops),
		PendingCrops: len(pending),
		TotalOrders:  len(orders),
		Revenue:      decimal.Zero,
	}
	for _, u := range users {
		switch u.Role {
		case model.RoleSeller:
			a.Farmers++
		case model.RoleBuyer:
			a.Buyers++
		}
	}
	for _, o := range orders {
		if o.Status == model.OrderDelivered {
			a.Revenue = a.Revenue.Add(o.TotalAmount)
		}
	}
	return a
}

// PendingFarmers are unverified sellers whose documents are all uploaded.
func PendingFarmers(users []model.User) []model.User {
	var out []model.User
	for _, u := range users {
		if u.IsFarmer() && !u.IsVerified && u.DocumentsComplete() {
			out = append(out, u)
		}
	}
	return out
}

// RecentActivity returns the newest orders first, at most limit of them.
func RecentActivity(orders []model.Order, limit int) []model.Order {
	out := make([]model.Order, len(orders))
	copy(out, orders)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
