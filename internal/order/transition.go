package order

import "agrimarket/internal/model"

// Action is one button offered on an order row.
type Action struct {
	Status model.OrderStatus
	Label  string
}

var transitions = map[model.OrderStatus][]Action{
	model.OrderPending: {
		{model.OrderConfirmed, "Confirm Order"},
		{model.OrderCancelled, "Cancel Order"},
	},
	model.OrderConfirmed: {
		{model.OrderShipped, "Mark as Shipped"},
		{model.OrderCancelled, "Cancel Order"},
	},
	model.OrderShipped: {
		{model.OrderDelivered, "Mark as Delivered"},
	},
}

// Actions lists the transitions available from status. Terminal and unknown
// statuses have none.
func Actions(status model.OrderStatus) []Action {
	return transitions[status]
}

func CanTransition(from, to model.OrderStatus) bool {
	for _, a := range transitions[from] {
		if a.Status == to {
			return true
		}
	}
	return false
}
