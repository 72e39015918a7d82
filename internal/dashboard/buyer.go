package dashboard

import (
	"context"
	"fmt"
	"sync"

	"agrimarket/internal/logger"
	"agrimarket/internal/model"
	"agrimarket/internal/navigator"
	"agrimarket/internal/order"
	"agrimarket/internal/session"
	"agrimarket/internal/stats"
	"agrimarket/internal/user"

	"go.uber.org/zap"
)

const (
	BuyerBrowse   navigator.Section = "browse"
	BuyerOrders   navigator.Section = "orders"
	BuyerFarmers  navigator.Section = "farmers"
	BuyerWishlist navigator.Section = "wishlist"
	BuyerProfile  navigator.Section = "profile"
)

// Buyer is one session's buyer dashboard.
type Buyer struct {
	*catalog
	nav      *navigator.Navigator
	out      slot
	loader   *stats.Loader
	orders   order.Service
	users    user.Service
	sessions session.Store

	mu      sync.Mutex
	user    model.User
	history []model.Order
	summary stats.Buyer
	farmers []model.User
}

func newBuyer(sid string, u model.User, d Deps) *Buyer {
	b := &Buyer{
		catalog:  newCatalog(d.Gateway),
		out:      slot{sid: sid, notices: d.Notices},
		loader:   stats.NewLoader(d.Gateway),
		orders:   d.Orders,
		users:    d.Users,
		sessions: d.Sessions,
		user:     u,
	}
	b.nav = navigator.MustNew(
		navigator.Spec{Section: BuyerBrowse, Label: "Browse Crops", OnEnter: b.enterCrops},
		navigator.Spec{Section: BuyerOrders, Label: "My Orders", OnEnter: b.enterOrders},
		navigator.Spec{Section: BuyerFarmers, Label: "Farmers", OnEnter: b.enterFarmers},
		navigator.Spec{Section: BuyerWishlist, Label: "Wishlist", OnEnter: b.enterCrops},
		navigator.Spec{Section: BuyerProfile, Label: "Profile"},
	)
	return b
}

func (b *Buyer) User() model.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.user
}

func (b *Buyer) Nav() *navigator.Navigator {
	return b.nav
}

// ---------- sections ----------

// Enter activates s. Load failures are reported to the session and do not
// fail the call; only an unknown section does.
func (b *Buyer) Enter(ctx context.Context, s navigator.Section) error {
	return enter(ctx, b.nav, b.out, s)
}

func (b *Buyer) enterCrops(ctx context.Context, _ navigator.Ticket) error {
	if err := b.ensure(ctx); err != nil {
		return failedTo("Failed to load crops. Please try again.", err)
	}
	return nil
}

func (b *Buyer) enterOrders(ctx context.Context, t navigator.Ticket) error {
	history, summary, err := b.loader.Buyer(ctx, b.User().ID)
	if err != nil {
		return failedTo("Failed to load orders.", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.nav.Current(t) {
		return nil
	}
	b.history, b.summary = history, summary
	return nil
}

func (b *Buyer) enterFarmers(ctx context.Context, t navigator.Ticket) error {
	farmers, err := b.users.VerifiedFarmers(ctx)
	if err != nil {
		return failedTo("Failed to load farmers.", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.nav.Current(t) {
		return nil
	}
	b.farmers = farmers
	return nil
}

func (b *Buyer) Orders() ([]model.Order, stats.Buyer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history, b.summary
}

func (b *Buyer) Farmers() []model.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.farmers
}

// ---------- actions ----------

// ViewFarmerCrops pins the listing to one farmer and switches to browse.
func (b *Buyer) ViewFarmerCrops(ctx context.Context, farmerID string) error {
	name := ""
	b.mu.Lock()
	for _, f := range b.farmers {
		if f.ID == farmerID {
			name = f.Name
			break
		}
	}
	b.mu.Unlock()

	b.pin(farmerID, name)
	if err := b.Enter(ctx, BuyerBrowse); err != nil {
		return err
	}
	if !b.engine.Loaded() {
		return nil
	}
	if name == "" {
		for _, c := range b.View().Items {
			if n := c.FarmerDisplayName(); n != "" {
				name = n
				b.pin(farmerID, name)
				break
			}
		}
	}
	if name == "" {
		name = "this farmer"
	}
	b.out.info("Showing crops from " + name)
	return nil
}

func (b *Buyer) ToggleWishlist(ctx context.Context, cropID string) error {
	u := b.User()
	return toggleWishlist(ctx, b.sessions, b.out, b.catalog, &u, cropID)
}

// Wishlist resolves the stored ids against the cached listing. Ids whose crop
// is gone are skipped but kept in the store.
func (b *Buyer) Wishlist(ctx context.Context) ([]model.Crop, error) {
	ids, err := b.sessions.Wishlist(ctx, b.User().ID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Crop, 0, len(ids))
	for _, id := range ids {
		if c, ok := b.Lookup(id); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// InWishlist is the membership test used while rendering cards.
func (b *Buyer) InWishlist(ctx context.Context) func(string) bool {
	ids, err := b.sessions.Wishlist(ctx, b.User().ID)
	if err != nil {
		logger.FromCtx(ctx).Warn("wishlist lookup failed", zap.Error(err))
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

// PlaceOrder validates against the cached crop and posts the order. On
// success the orders section is shown.
func (b *Buyer) PlaceOrder(ctx context.Context, cropID string, quantity int, address, instructions string) (*model.Order, error) {
	c, ok := b.Lookup(cropID)
	if !ok {
		b.out.fail("Crop details not found.")
		return nil, ErrCropNotFound
	}

	o, err := b.orders.Place(ctx, b.User(), order.Placement{
		Crop:                c,
		Quantity:            quantity,
		DeliveryAddress:     address,
		SpecialInstructions: instructions,
	})
	if err != nil {
		b.out.failWith("Order failed: ", err)
		return nil, err
	}

	if err := b.Enter(ctx, BuyerOrders); err != nil {
		return o, err
	}
	b.out.success(fmt.Sprintf("Payment Successful! Your order for %dkg of %s has been placed successfully.", quantity, c.Name))
	return o, nil
}

// UpdateProfile saves the profile and replaces the stored session user.
func (b *Buyer) UpdateProfile(ctx context.Context, in user.ProfileInput) (model.User, error) {
	updated, err := updateProfile(ctx, b.users, b.sessions, b.out, b.User(), in)
	if err != nil {
		return model.User{}, err
	}
	b.mu.Lock()
	b.user = updated
	b.mu.Unlock()
	return updated, nil
}
