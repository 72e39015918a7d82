package dashboard

import (
	"context"
	"errors"
	"fmt"

	"agrimarket/internal/crop"
	"agrimarket/internal/gateway"
	"agrimarket/internal/logger"
	"agrimarket/internal/model"
	"agrimarket/internal/navigator"
	"agrimarket/internal/notify"
	"agrimarket/internal/order"
	"agrimarket/internal/session"
	"agrimarket/internal/stats"
	"agrimarket/internal/user"

	"go.uber.org/zap"
)

var (
	ErrCropNotFound  = errors.New("crop not found in the current view")
	ErrOrderNotFound = errors.New("order not found in the current view")
	ErrUserNotFound  = errors.New("user not found in the current view")
)

// Gateway is every collection fetch the dashboards issue directly or
// through the stats loader.
type Gateway interface {
	stats.Gateway
}

// Deps are shared by every view state. Nothing here is per session.
type Deps struct {
	Gateway  Gateway
	Orders   order.Service
	Crops    crop.Service
	Users    user.Service
	Sessions session.Store
	Notices  *notify.Center
}

// slot sends notifications to one browser session.
type slot struct {
	sid     string
	notices *notify.Center
}

func (s slot) info(msg string) {
	s.notices.Info(s.sid, msg)
}

func (s slot) success(msg string) {
	s.notices.Success(s.sid, msg)
}

func (s slot) fail(msg string) {
	s.notices.Error(s.sid, msg)
}

// failWith shows rule violations as is and prefixes backend failures.
func (s slot) failWith(prefix string, err error) {
	if userFacing(err) {
		s.fail(err.Error())
		return
	}
	s.fail(prefix + gateway.Message(err))
}

var ruleErrors = []error{
	crop.ErrAdminApprovalRequired,
	crop.ErrStatusNotAllowed,
	crop.ErrUnauthorized,
	order.ErrInvalidTransition,
	order.ErrUnauthorized,
	user.ErrCannotDeleteAdmin,
	user.ErrNotAFarmer,
}

func userFacing(err error) bool {
	var (
		orderErr  *order.ValidationError
		cropErr   *crop.ValidationError
		userErr   *user.ValidationError
		uploadErr *crop.UploadError
	)
	if errors.As(err, &orderErr) || errors.As(err, &cropErr) || errors.As(err, &userErr) || errors.As(err, &uploadErr) {
		return true
	}
	for _, target := range ruleErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// loadError carries the text shown when a section fails to load.
type loadError struct {
	msg string
	err error
}

func (e *loadError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *loadError) Unwrap() error {
	return e.err
}

func failedTo(msg string, err error) error {
	return &loadError{msg: msg, err: err}
}

func enter(ctx context.Context, nav *navigator.Navigator, out slot, s navigator.Section) error {
	_, err := nav.Activate(ctx, s)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, navigator.ErrUnknownSection), errors.Is(err, navigator.ErrTransitionNotAllowed):
		return err
	}

	logger.FromCtx(ctx).Error("section load failed",
		zap.String("layer", "dashboard"),
		zap.String("section", string(s)),
		zap.Error(err),
	)
	out.fail(loadFailure(s, err))
	return nil
}

func loadFailure(s navigator.Section, err error) string {
	var lf *loadError
	if errors.As(err, &lf) {
		return lf.msg
	}
	return fmt.Sprintf("Failed to load %s.", s)
}

func updateProfile(ctx context.Context, users user.Service, sessions session.Store, out slot, current model.User, in user.ProfileInput) (model.User, error) {
	updated, err := users.UpdateProfile(ctx, current, in)
	if err != nil {
		out.failWith("Update failed: ", err)
		return model.User{}, err
	}
	if err := sessions.SaveUser(ctx, out.sid, updated); err != nil {
		logger.FromCtx(ctx).Warn("session user not refreshed", zap.Error(err))
	}
	out.success("Profile updated successfully!")
	return updated, nil
}
