package session

import (
	"context"

	"agrimarket/internal/model"
)

// Store persists the signed-in user, the per-user wishlist and the
// registration draft. It does no validation.
type Store interface {
	SaveUser(ctx context.Context, sessionID string, u model.User) error
	User(ctx context.Context, sessionID string) (model.User, error)
	ClearUser(ctx context.Context, sessionID string) error

	Wishlist(ctx context.Context, userID string) ([]string, error)
	InWishlist(ctx context.Context, userID, cropID string) (bool, error)
	// ToggleWishlist flips membership and reports whether cropID is now present.
	ToggleWishlist(ctx context.Context, userID, cropID string) (bool, error)

	SaveDraft(ctx context.Context, sessionID string, d Draft) error
	// TakeDraft returns and removes the draft.
	TakeDraft(ctx context.Context, sessionID string) (Draft, bool, error)
}

// Draft pre-fills the farmer registration form from the quick signup.
type Draft struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func wishlistKey(userID string) string {
	return "wishlist_" + userID
}

func userKey(sessionID string) string {
	return "session:" + sessionID + ":user"
}

func draftKey(sessionID string) string {
	return "session:" + sessionID + ":tempFarmerReg"
}
