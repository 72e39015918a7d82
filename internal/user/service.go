package user

import (
	"context"
	"strings"
	"time"

	"agrimarket/internal/audit"
	"agrimarket/internal/events"
	"agrimarket/internal/gateway"
	"agrimarket/internal/logger"
	"agrimarket/internal/model"

	"go.uber.org/zap"
)

type Gateway interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	Signup(ctx context.Context, payload any) (*gateway.AuthResponse, error)
	Login(ctx context.Context, creds gateway.Credentials) (*gateway.AuthResponse, error)
	UpdateUser(ctx context.Context, id string, patch any) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Service interface {
	Login(ctx context.Context, email, password string) (model.User, string, error)
	Signup(ctx context.Context, in SignupInput) (string, error)
	UpdateProfile(ctx context.Context, current model.User, in ProfileInput) (model.User, error)
	Verify(ctx context.Context, admin, farmer model.User) (*model.User, error)
	Delete(ctx context.Context, admin, target model.User) error
	VerifiedFarmers(ctx context.Context) ([]model.User, error)
}

type service struct {
	gw        Gateway
	publisher events.Publisher
	audit     Auditor
}

func NewService(gw Gateway, publisher events.Publisher, auditor Auditor) Service {
	return &service{gw: gw, publisher: publisher, audit: auditor}
}

// Login returns the signed-in user and the dashboard path for their role.
func (s *service) Login(ctx context.Context, email, password string) (model.User, string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.User{}, "", &ValidationError{Field: "email", Message: "Please enter your email and password."}
	}

	res, err := s.gw.Login(ctx, gateway.Credentials{Email: email, Password: password})
	if err != nil {
		log.Info("login failed", zap.Error(err))
		return model.User{}, "", err
	}
	if res.User == nil || res.User.ID == "" {
		return model.User{}, "", ErrNoUserInResponse
	}

	log.Info("Login success", zap.String("user_id", res.User.ID), zap.String("role", string(res.User.Role)))
	return *res.User, HomePath(res.User.Role), nil
}

// Signup registers a buyer and returns the backend's confirmation message.
func (s *service) Signup(ctx context.Context, in SignupInput) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Signup"),
	)

	if err := in.Validate(); err != nil {
		return "", err
	}

	res, err := s.gw.Signup(ctx, signupRequest{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Phone:    in.Phone,
		Role:     model.RoleBuyer,
	})
	if err != nil {
		log.Info("signup failed", zap.Error(err))
		return "", err
	}

	msg := res.Message
	if msg == "" {
		msg = "User created successfully!"
	}
	log.Info("Signup success")
	return msg, nil
}

// UpdateProfile returns the user as stored by the backend. The caller
// replaces the session copy with it.
func (s *service) UpdateProfile(ctx context.Context, current model.User, in ProfileInput) (model.User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProfile"),
		zap.String("user_id", current.ID),
	)

	if current.ID == "" {
		return model.User{}, ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return model.User{}, err
	}

	updated, err := s.gw.UpdateUser(ctx, current.ID, profileRequest{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		log.Error("failed to update profile", zap.Error(err))
		return model.User{}, err
	}
	if updated.ID == "" {
		updated.ID = current.ID
	}
	log.Info("UpdateProfile success")
	return *updated, nil
}

func (s *service) Verify(ctx context.Context, admin, farmer model.User) (*model.User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Verify"),
		zap.String("farmer_id", farmer.ID),
	)

	if !admin.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if !farmer.IsFarmer() {
		return nil, ErrNotAFarmer
	}

	updated, err := s.gw.UpdateUser(ctx, farmer.ID, verifyRequest{IsVerified: true})
	if err != nil {
		log.Error("failed to verify farmer", zap.Error(err))
		return nil, err
	}

	events.PublishQuietly(ctx, s.publisher, events.FarmerVerified, map[string]string{"farmerId": farmer.ID})
	s.record(ctx, admin, audit.ActionFarmerVerified, farmer)
	log.Info("Verify success")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, admin, target model.User) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Delete"),
		zap.String("target_id", target.ID),
	)

	if !admin.IsAdmin() {
		return ErrUnauthorized
	}
	if target.IsAdmin() {
		return ErrCannotDeleteAdmin
	}

	if err := s.gw.DeleteUser(ctx, target.ID); err != nil {
		log.Error("failed to delete user", zap.Error(err))
		return err
	}

	events.PublishQuietly(ctx, s.publisher, events.UserDeleted, map[string]string{"userId": target.ID, "role": string(target.Role)})
	s.record(ctx, admin, audit.ActionUserDeleted, target)
	log.Info("Delete success")
	return nil
}

func (s *service) VerifiedFarmers(ctx context.Context) ([]model.User, error) {
	start := time.Now()
	users, err := s.gw.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := FilterVerifiedFarmers(users)
	logger.FromCtx(ctx).Debug("verified farmers loaded",
		zap.Int("count", len(out)),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (s *service) record(ctx context.Context, actor model.User, action audit.Action, target model.User) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     action,
		TargetType: "user",
		TargetID:   target.ID,
		Detail:     target.Email,
	})
}

func FilterVerifiedFarmers(users []model.User) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.IsFarmer() && u.IsVerified {
			out = append(out, u)
		}
	}
	return out
}

// FilterFarmers returns every seller, verified or not.
func FilterFarmers(users []model.User) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.IsFarmer() {
			out = append(out, u)
		}
	}
	return out
}

// Find returns the user with id, or false.
func Find(users []model.User, id string) (model.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}
