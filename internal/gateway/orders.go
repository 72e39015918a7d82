package gateway

import (
	"context"

	"agrimarket/internal/model"
)

const ordersPath = "/api/orders"

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	return c.orders(ctx, ordersPath)
}

func (c *Client) OrdersByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	return c.orders(ctx, ordersPath+"/buyer/"+escape(buyerID))
}

func (c *Client) OrdersByFarmer(ctx context.Context, farmerID string) ([]model.Order, error) {
	return c.orders(ctx, ordersPath+"/farmer/"+escape(farmerID))
}

func (c *Client) CreateOrder(ctx context.Context, payload any) (*model.Order, error) {
	res := envelope[model.Order]{key: "order"}
	if err := c.Create(ctx, ordersPath, payload, &res); err != nil {
		return nil, err
	}
	return &res.record, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	res := envelope[model.Order]{key: "order"}
	body := map[string]model.OrderStatus{"status": status}
	if err := c.Update(ctx, ordersPath+"/"+escape(id)+"/status", body, &res); err != nil {
		return nil, err
	}
	return &res.record, nil
}

func (c *Client) orders(ctx context.Context, path string) ([]model.Order, error) {
	var orders []model.Order
	if err := c.FetchCollection(ctx, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
