package crop

import (
	"context"
	"strings"
	"time"

	"agrimarket/internal/audit"
	"agrimarket/internal/events"
	"agrimarket/internal/logger"
	"agrimarket/internal/media"
	"agrimarket/internal/model"

	"go.uber.org/zap"
)

type Gateway interface {
	CreateCrop(ctx context.Context, payload any) (*model.Crop, error)
	UpdateCrop(ctx context.Context, id string, patch any) (*model.Crop, error)
	DeleteCrop(ctx context.Context, id string) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Service interface {
	Add(ctx context.Context, farmer model.User, in Input, image *media.File) (*model.Crop, error)
	Update(ctx context.Context, actor model.User, c model.Crop, in Input) (*model.Crop, error)
	Delete(ctx context.Context, actor model.User, c model.Crop) error
	SetStatus(ctx context.Context, actor model.User, c model.Crop, to model.CropStatus) (*model.Crop, error)
	Approve(ctx context.Context, admin model.User, c model.Crop) (*model.Crop, error)
}

type service struct {
	gw        Gateway
	uploader  media.Uploader
	publisher events.Publisher
	audit     Auditor
}

func NewService(gw Gateway, uploader media.Uploader, publisher events.Publisher, auditor Auditor) Service {
	return &service{gw: gw, uploader: uploader, publisher: publisher, audit: auditor}
}

func (s *service) Add(ctx context.Context, farmer model.User, in Input, image *media.File) (*model.Crop, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Add"),
		zap.String("farmer_id", farmer.ID),
	)
	start := time.Now()

	if !farmer.IsFarmer() {
		return nil, ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var imageURL string
	if image != nil && len(image.Data) > 0 {
		url, err := s.uploader.Upload(ctx, *image)
		if err != nil {
			log.Error("image upload failed", zap.Error(err))
			return nil, &UploadError{Err: err}
		}
		imageURL = url
	}

	quality := strings.TrimSpace(in.Quality)
	if quality == "" {
		quality = "standard"
	}

	created, err := s.gw.CreateCrop(ctx, createRequest{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: strings.TrimSpace(in.Description),
		Quality:     quality,
		HarvestDate: in.HarvestDate,
		FarmerID:    farmer.ID,
		FarmerName:  farmer.Name,
		Location:    location(farmer),
		ImageURL:    imageURL,
	})
	if err != nil {
		log.Error("failed to create crop", zap.Error(err))
		return nil, err
	}

	events.PublishQuietly(ctx, s.publisher, events.CropCreated, created)
	log.Info("Add success", zap.String("crop_id", created.ID), zap.Duration("duration", time.Since(start)))
	return created, nil
}

func (s *service) Update(ctx context.Context, actor model.User, c model.Crop, in Input) (*model.Crop, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Update"),
		zap.String("crop_id", c.ID),
	)

	if !canManage(actor, c) {
		return nil, ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.gw.UpdateCrop(ctx, c.ID, updateRequest{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		log.Error("failed to update crop", zap.Error(err))
		return nil, err
	}
	log.Info("Update success")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor model.User, c model.Crop) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Delete"),
		zap.String("crop_id", c.ID),
	)

	if !canManage(actor, c) {
		return ErrUnauthorized
	}
	if err := s.gw.DeleteCrop(ctx, c.ID); err != nil {
		log.Error("failed to delete crop", zap.Error(err))
		return err
	}

	events.PublishQuietly(ctx, s.publisher, events.CropDeleted, map[string]string{"cropId": c.ID, "actorId": actor.ID})
	if actor.IsAdmin() {
		s.record(ctx, actor, audit.ActionCropDeleted, c.ID, c.Name)
	}
	log.Info("Delete success")
	return nil
}

// SetStatus applies the crop status rules:
//   - only an admin moves a crop out of pending
//   - a farmer may toggle their own crop between available and sold_out
func (s *service) SetStatus(ctx context.Context, actor model.User, c model.Crop, to model.CropStatus) (*model.Crop, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SetStatus"),
		zap.String("crop_id", c.ID),
		zap.String("from", string(c.Status)),
		zap.String("to", string(to)),
	)

	if err := checkStatusChange(actor, c, to); err != nil {
		log.Warn("crop status change refused", zap.String("actor_id", actor.ID), zap.Error(err))
		return nil, err
	}

	updated, err := s.gw.UpdateCrop(ctx, c.ID, statusRequest{Status: to})
	if err != nil {
		log.Error("failed to update crop status", zap.Error(err))
		return nil, err
	}

	if c.Status == model.CropPending && to == model.CropAvailable {
		events.PublishQuietly(ctx, s.publisher, events.CropApproved, updated)
		s.record(ctx, actor, audit.ActionCropApproved, c.ID, string(c.Status)+" -> "+string(to))
	}
	log.Info("SetStatus success")
	return updated, nil
}

func (s *service) Approve(ctx context.Context, admin model.User, c model.Crop) (*model.Crop, error) {
	return s.SetStatus(ctx, admin, c, model.CropAvailable)
}

func (s *service) record(ctx context.Context, actor model.User, action audit.Action, id, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     action,
		TargetType: "crop",
		TargetID:   id,
		Detail:     detail,
	})
}

func canManage(actor model.User, c model.Crop) bool {
	return actor.IsAdmin() || (actor.IsFarmer() && actor.ID != "" && c.Farmer.ID == actor.ID)
}

func checkStatusChange(actor model.User, c model.Crop, to model.CropStatus) error {
	if c.Status == to {
		return ErrStatusNotAllowed
	}
	if actor.IsAdmin() {
		switch to {
		case model.CropAvailable, model.CropRejected, model.CropSoldOut, model.CropPending:
			return nil
		}
		return ErrStatusNotAllowed
	}
	if !canManage(actor, c) {
		return ErrUnauthorized
	}
	if c.Status == model.CropPending {
		return ErrAdminApprovalRequired
	}
	toggle := (c.Status == model.CropAvailable && to == model.CropSoldOut) ||
		(c.Status == model.CropSoldOut && to == model.CropAvailable)
	if !toggle {
		return ErrStatusNotAllowed
	}
	return nil
}
