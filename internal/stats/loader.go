package stats

import (
	"context"
	"time"

	"agrimarket/internal/logger"
	"agrimarket/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Gateway interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListCrops(ctx context.Context) ([]model.Crop, error)
	PendingCrops(ctx context.Context) ([]model.Crop, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	CropsByFarmer(ctx context.Context, farmerID string) ([]model.Crop, error)
	OrdersByFarmer(ctx context.Context, farmerID string) ([]model.Order, error)
	OrdersByBuyer(ctx context.Context, buyerID string) ([]model.Order, error)
}

// FarmerBatch is everything the farmer overview needs.
type FarmerBatch struct {
	Crops  []model.Crop
	Orders []model.Order
	Stats  Farmer
}

// AdminBatch is everything the admin overview needs.
type AdminBatch struct {
	Users          []model.User
	Crops          []model.Crop
	PendingCrops   []model.Crop
	Orders         []model.Order
	PendingFarmers []model.User
	Recent         []model.Order
	Stats          Admin
}

// Loader issues the fetches of a batch together and returns only when all
// of them succeeded. A single failure cancels the rest and fails the batch.
type Loader struct {
	gw Gateway
}

func NewLoader(gw Gateway) *Loader {
	return &Loader{gw: gw}
}

func (l *Loader) Buyer(ctx context.Context, buyerID string) ([]model.Order, Buyer, error) {
	orders, err := l.gw.OrdersByBuyer(ctx, buyerID)
	if err != nil {
		return nil, Buyer{}, err
	}
	return orders, ForBuyer(orders), nil
}

func (l *Loader) Farmer(ctx context.Context, farmerID string) (*FarmerBatch, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "stats"),
		zap.String("method", "Farmer"),
	)
	start := time.Now()

	var b FarmerBatch
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Crops, err = l.gw.CropsByFarmer(gctx, farmerID)
		return err
	})
	g.Go(func() (err error) {
		b.Orders, err = l.gw.OrdersByFarmer(gctx, farmerID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Warn("farmer batch failed", zap.Error(err))
		return nil, err
	}

	b.Stats = ForFarmer(b.Crops, b.Orders)
	log.Debug("farmer batch loaded", zap.Duration("duration", time.Since(start)))
	return &b, nil
}

func (l *Loader) Admin(ctx context.Context) (*AdminBatch, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "stats"),
		zap.String("method", "Admin"),
	)
	start := time.Now()

	var b AdminBatch
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Users, err = l.gw.ListUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		b.Crops, err = l.gw.ListCrops(gctx)
		return err
	})
	g.Go(func() (err error) {
		b.PendingCrops, err = l.gw.PendingCrops(gctx)
		return err
	})
	g.Go(func() (err error) {
		b.Orders, err = l.gw.ListOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Warn("admin batch failed", zap.Error(err))
		return nil, err
	}

	b.Stats = ForAdmin(b.Users, b.Crops, b.PendingCrops, b.Orders)
	b.PendingFarmers = PendingFarmers(b.Users)
	b.Recent = RecentActivity(b.Orders, RecentActivityLimit)

	log.Debug("admin batch loaded", zap.Duration("duration", time.Since(start)))
	return &b, nil
}
