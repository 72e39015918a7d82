package dashboard

import (
	"context"
	"sync"

	"agrimarket/internal/crop"
	"agrimarket/internal/model"
	"agrimarket/internal/navigator"
	"agrimarket/internal/stats"
	"agrimarket/internal/user"
)

const (
	AdminOverview navigator.Section = "overview"
	AdminFarmers  navigator.Section = "farmers"
	AdminCrops    navigator.Section = "crops"
	AdminOrders   navigator.Section = "orders"
	AdminUsers    navigator.Section = "users"
)

const detailsNotFound = "Details not found"

// Admin is one session's admin dashboard.
type Admin struct {
	nav    *navigator.Navigator
	out    slot
	gw     Gateway
	loader *stats.Loader
	crops  crop.Service
	users  user.Service

	mu       sync.Mutex
	user     model.User
	overview *stats.AdminBatch
	people   []model.User
	listing  []model.Crop
	history  []model.Order
}

func newAdmin(sid string, u model.User, d Deps) *Admin {
	a := &Admin{
		out:    slot{sid: sid, notices: d.Notices},
		gw:     d.Gateway,
		loader: stats.NewLoader(d.Gateway),
		crops:  d.Crops,
		users:  d.Users,
		user:   u,
	}
	a.nav = navigator.MustNew(
		navigator.Spec{Section: AdminOverview, Label: "Overview", OnEnter: a.enterOverview},
		navigator.Spec{Section: AdminFarmers, Label: "Farmers", OnEnter: a.enterUsers},
		navigator.Spec{Section: AdminCrops, Label: "Crops", OnEnter: a.enterCrops},
		navigator.Spec{Section: AdminOrders, Label: "Orders", OnEnter: a.enterOrders},
		navigator.Spec{Section: AdminUsers, Label: "Users", OnEnter: a.enterUsers},
	)
	return a
}

func (a *Admin) User() model.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *Admin) Nav() *navigator.Navigator {
	return a.nav
}

func (a *Admin) Enter(ctx context.Context, s navigator.Section) error {
	return enter(ctx, a.nav, a.out, s)
}

func (a *Admin) refresh(ctx context.Context) {
	_ = a.Enter(ctx, a.nav.Active())
}

// ---------- sections ----------

func (a *Admin) enterOverview(ctx context.Context, t navigator.Ticket) error {
	batch, err := a.loader.Admin(ctx)
	if err != nil {
		return failedTo("Failed to load dashboard data.", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.nav.Current(t) {
		return nil
	}
	a.overview = batch
	a.people, a.listing, a.history = batch.Users, batch.Crops, batch.Orders
	return nil
}

func (a *Admin) enterUsers(ctx context.Context, t navigator.Ticket) error {
	people, err := a.gw.ListUsers(ctx)
	if err != nil {
		return failedTo("Failed to load users.", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.nav.Current(t) {
		return nil
	}
	a.people = people
	return nil
}

func (a *Admin) enterCrops(ctx context.Context, t navigator.Ticket) error {
	listing, err := a.gw.ListCrops(ctx)
	if err != nil {
		return failedTo("Failed to load crops.", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.nav.Current(t) {
		return nil
	}
	a.listing = listing
	return nil
}

func (a *Admin) enterOrders(ctx context.Context, t navigator.Ticket) error {
	history, err := a.gw.ListOrders(ctx)
	if err != nil {
		return failedTo("Failed to load orders.", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.nav.Current(t) {
		return nil
	}
	a.history = history
	return nil
}

// Overview returns the last successful overview batch, or nil.
func (a *Admin) Overview() *stats.AdminBatch {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overview
}

func (a *Admin) Users() []model.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.people
}

func (a *Admin) Farmers() []model.User {
	return user.FilterFarmers(a.Users())
}

func (a *Admin) Crops() []model.Crop {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listing
}

func (a *Admin) Orders() []model.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history
}

func (a *Admin) findUser(id string) (model.User, bool) {
	return user.Find(a.Users(), id)
}

func (a *Admin) findCrop(id string) (model.Crop, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	candidates := a.listing
	if a.overview != nil {
		candidates = append(append([]model.Crop(nil), a.listing...), a.overview.PendingCrops...)
	}
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return model.Crop{}, false
}

// ---------- actions ----------

// FarmerDetails looks the farmer up in the cached users. A missing record is
// reported, never fatal.
func (a *Admin) FarmerDetails(id string) (model.User, bool) {
	u, ok := a.findUser(id)
	if !ok || u.FarmerDetails == nil {
		a.out.fail(detailsNotFound)
		return model.User{}, false
	}
	return u, true
}

func (a *Admin) VerifyFarmer(ctx context.Context, id string) error {
	target, ok := a.findUser(id)
	if !ok {
		a.out.fail(detailsNotFound)
		return ErrUserNotFound
	}
	if _, err := a.users.Verify(ctx, a.User(), target); err != nil {
		a.out.failWith("", err)
		return err
	}
	a.refresh(ctx)
	a.out.success("Verified successfully")
	return nil
}

func (a *Admin) DeleteUser(ctx context.Context, id string) error {
	target, ok := a.findUser(id)
	if !ok {
		a.out.fail(detailsNotFound)
		return ErrUserNotFound
	}
	if err := a.users.Delete(ctx, a.User(), target); err != nil {
		a.out.failWith("", err)
		return err
	}
	a.refresh(ctx)
	a.out.success("User deleted")
	return nil
}

func (a *Admin) ApproveCrop(ctx context.Context, id string) error {
	c, ok := a.findCrop(id)
	if !ok {
		a.out.fail("Crop details not found.")
		return ErrCropNotFound
	}
	if _, err := a.crops.Approve(ctx, a.User(), c); err != nil {
		a.out.failWith("", err)
		return err
	}
	a.refresh(ctx)
	a.out.success("Status updated")
	return nil
}

func (a *Admin) DeleteCrop(ctx context.Context, id string) error {
	c, ok := a.findCrop(id)
	if !ok {
		a.out.fail("Crop details not found.")
		return ErrCropNotFound
	}
	if err := a.crops.Delete(ctx, a.User(), c); err != nil {
		a.out.failWith("", err)
		return err
	}
	a.refresh(ctx)
	a.out.success("Crop deleted")
	return nil
}
