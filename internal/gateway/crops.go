package gateway

import (
	"context"

	"agrimarket/internal/model"
)

const cropsPath = "/api/crops"

func (c *Client) ListCrops(ctx context.Context) ([]model.Crop, error) {
	return c.crops(ctx, cropsPath)
}

func (c *Client) PendingCrops(ctx context.Context) ([]model.Crop, error) {
	return c.crops(ctx, cropsPath+"/pending")
}

func (c *Client) CropsByFarmer(ctx context.Context, farmerID string) ([]model.Crop, error) {
	return c.crops(ctx, cropsPath+"/farmer/"+escape(farmerID))
}

func (c *Client) GetCrop(ctx context.Context, id string) (*model.Crop, error) {
	res := envelope[model.Crop]{key: "crop"}
	if err := c.FetchOne(ctx, cropsPath+"/"+escape(id), &res); err != nil {
		return nil, err
	}
	return &res.record, nil
}

func (c *Client) CreateCrop(ctx context.Context, payload any) (*model.Crop, error) {
	res := envelope[model.Crop]{key: "crop"}
	if err := c.Create(ctx, cropsPath, payload, &res); err != nil {
		return nil, err
	}
	return &res.record, nil
}

func (c *Client) UpdateCrop(ctx context.Context, id string, patch any) (*model.Crop, error) {
	res := envelope[model.Crop]{key: "crop"}
	if err := c.Update(ctx, cropsPath+"/"+escape(id), patch, &res); err != nil {
		return nil, err
	}
	return &res.record, nil
}

func (c *Client) DeleteCrop(ctx context.Context, id string) error {
	return c.Delete(ctx, cropsPath+"/"+escape(id))
}

func (c *Client) crops(ctx context.Context, path string) ([]model.Crop, error) {
	var crops []model.Crop
	if err := c.FetchCollection(ctx, path, nil, &crops); err != nil {
		return nil, err
	}
	return crops, nil
}
