package order

import (
	"context"
	"strings"
	"time"

	"agrimarket/internal/audit"
	"agrimarket/internal/events"
	"agrimarket/internal/logger"
	"agrimarket/internal/model"

	"go.uber.org/zap"
)

// Gateway is the slice of the backend client the order service needs.
type Gateway interface {
	CreateOrder(ctx context.Context, payload any) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}

// Auditor records privileged actions. *audit.Recorder satisfies it.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Service interface {
	Place(ctx context.Context, buyer model.User, p Placement) (*model.Order, error)
	UpdateStatus(ctx context.Context, actor model.User, o model.Order, to model.OrderStatus) (*model.Order, error)
}

type service struct {
	gw        Gateway
	publisher events.Publisher
	audit     Auditor
}

func NewService(gw Gateway, publisher events.Publisher, auditor Auditor) Service {
	return &service{gw: gw, publisher: publisher, audit: auditor}
}

// ---------- Place ----------

func (s *service) Place(ctx context.Context, buyer model.User, p Placement) (*model.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Place"),
		zap.String("crop_id", p.Crop.ID),
	)
	start := time.Now()

	if buyer.ID == "" {
		return nil, ErrUnauthorized
	}
	if err := ValidatePlacement(p); err != nil {
		log.Info("order rejected", zap.String("reason", err.Error()))
		return nil, err
	}

	req := createRequest{
		CropID:              p.Crop.ID,
		Quantity:            p.Quantity,
		DeliveryAddress:     strings.TrimSpace(p.DeliveryAddress),
		SpecialInstructions: strings.TrimSpace(p.SpecialInstructions),
		BuyerID:             buyer.ID,
		BuyerName:           buyer.Name,
		TotalAmount:         Total(p.Crop.Price, p.Quantity),
	}

	created, err := s.gw.CreateOrder(ctx, req)
	if err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	events.PublishQuietly(ctx, s.publisher, events.OrderPlaced, created)

	log.Info("Place success",
		zap.String("order_id", created.ID),
		zap.String("total", req.TotalAmount.String()),
		zap.Duration("duration", time.Since(start)),
	)
	return created, nil
}

// ---------- UpdateStatus ----------

func (s *service) UpdateStatus(ctx context.Context, actor model.User, o model.Order, to model.OrderStatus) (*model.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", o.ID),
		zap.String("from", string(o.Status)),
		zap.String("to", string(to)),
	)

	switch {
	case actor.IsAdmin():
	case actor.IsFarmer() && o.Farmer.ID == actor.ID:
	default:
		log.Warn("status change refused", zap.String("actor_id", actor.ID))
		return nil, ErrUnauthorized
	}

	if !CanTransition(o.Status, to) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.gw.UpdateOrderStatus(ctx, o.ID, to)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	events.PublishQuietly(ctx, s.publisher, events.OrderStatusChanged, statusEvent{
		OrderID: o.ID, From: o.Status, To: to, ActorID: actor.ID,
	})
	if s.audit != nil {
		s.audit.Record(ctx, audit.Entry{
			ActorID:    actor.ID,
			ActorRole:  string(actor.Role),
			Action:     audit.ActionOrderStatusChanged,
			TargetType: "order",
			TargetID:   o.ID,
			Detail:     string(o.Status) + " -> " + string(to),
		})
	}

	log.Info("UpdateStatus success")
	return updated, nil
}
