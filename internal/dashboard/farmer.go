package dashboard

import (
	"context"
	"sync"

	"agrimarket/internal/crop"
	"agrimarket/internal/media"
	"agrimarket/internal/model"
	"agrimarket/internal/navigator"
	"agrimarket/internal/order"
	"agrimarket/internal/session"
	"agrimarket/internal/stats"
	"agrimarket/internal/user"
)

const (
	FarmerCrops   navigator.Section = "crops"
	FarmerOrders  navigator.Section = "orders"
	FarmerProfile navigator.Section = "profile"
)

// Farmer is one session's farmer dashboard. The crops and orders sections
// share a single batch so the stats cards always agree with the tables.
type Farmer struct {
	nav      *navigator.Navigator
	out      slot
	loader   *stats.Loader
	crops    crop.Service
	orders   order.Service
	users    user.Service
	sessions session.Store

	mu      sync.Mutex
	user    model.User
	listing []model.Crop
	history []model.Order
	summary stats.Farmer
}

func newFarmer(sid string, u model.User, d Deps) *Farmer {
	f := &Farmer{
		out:      slot{sid: sid, notices: d.Notices},
		loader:   stats.NewLoader(d.Gateway),
		crops:    d.Crops,
		orders:   d.Orders,
		users:    d.Users,
		sessions: d.Sessions,
		user:     u,
	}
	f.nav = navigator.MustNew(
		navigator.Spec{Section: FarmerCrops, Label: "My Crops", OnEnter: f.enterBatch},
		navigator.Spec{Section: FarmerOrders, Label: "Orders", OnEnter: f.enterBatch},
		navigator.Spec{Section: FarmerProfile, Label: "Profile"},
	)
	return f
}

func (f *Farmer) User() model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *Farmer) Nav() *navigator.Navigator {
	return f.nav
}

func (f *Farmer) Enter(ctx context.Context, s navigator.Section) error {
	return enter(ctx, f.nav, f.out, s)
}

func (f *Farmer) enterBatch(ctx context.Context, t navigator.Ticket) error {
	batch, err := f.loader.Farmer(ctx, f.User().ID)
	if err != nil {
		if t.Section == FarmerOrders {
			return failedTo("Failed to load orders.", err)
		}
		return failedTo("Failed to load crops.", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.nav.Current(t) {
		return nil
	}
	f.listing, f.history, f.summary = batch.Crops, batch.Orders, batch.Stats
	return nil
}

// refresh re-enters the active section so tables and stats reload together.
func (f *Farmer) refresh(ctx context.Context) {
	_ = f.Enter(ctx, f.nav.Active())
}

func (f *Farmer) Crops() []model.Crop {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listing
}

func (f *Farmer) Orders() []model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history
}

func (f *Farmer) Stats() stats.Farmer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary
}

func (f *Farmer) findCrop(id string) (model.Crop, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.listing {
		if c.ID == id {
			return c, true
		}
	}
	return model.Crop{}, false
}

func (f *Farmer) findOrder(id string) (model.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.history {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}

// ---------- crop actions ----------

// AddCrop uploads the optional image first; an upload failure means nothing
// is created.
func (f *Farmer) AddCrop(ctx context.Context, in crop.Input, image *media.File) (*model.Crop, error) {
	if image != nil {
		f.out.info("Uploading image to Cloudinary...")
	}
	c, err := f.crops.Add(ctx, f.User(), in, image)
	if err != nil {
		f.out.failWith("Failed to add crop: ", err)
		return nil, err
	}
	f.refresh(ctx)
	f.out.success("Crop added successfully!")
	return c, nil
}

func (f *Farmer) UpdateCrop(ctx context.Context, id string, in crop.Input) (*model.Crop, error) {
	current, ok := f.findCrop(id)
	if !ok {
		f.out.fail("Failed to load crop details")
		return nil, ErrCropNotFound
	}
	c, err := f.crops.Update(ctx, f.User(), current, in)
	if err != nil {
		if userFacing(err) {
			f.out.fail(err.Error())
		} else {
			f.out.fail("Failed to update crop")
		}
		return nil, err
	}
	f.refresh(ctx)
	f.out.success("Crop updated successfully!")
	return c, nil
}

func (f *Farmer) DeleteCrop(ctx context.Context, id string) error {
	current, ok := f.findCrop(id)
	if !ok {
		f.out.fail("Failed to delete crop")
		return ErrCropNotFound
	}
	if err := f.crops.Delete(ctx, f.User(), current); err != nil {
		f.out.fail("Failed to delete crop")
		return err
	}
	f.refresh(ctx)
	f.out.success("Crop deleted successfully!")
	return nil
}

// SetCropStatus switches a listing between available and sold out.
func (f *Farmer) SetCropStatus(ctx context.Context, id string, to model.CropStatus) error {
	current, ok := f.findCrop(id)
	if !ok {
		f.out.fail("Failed to load crop details")
		return ErrCropNotFound
	}
	if _, err := f.crops.SetStatus(ctx, f.User(), current, to); err != nil {
		f.out.failWith("Failed to update crop: ", err)
		return err
	}
	f.refresh(ctx)
	f.out.success("Status updated")
	return nil
}

// ---------- order actions ----------

func (f *Farmer) UpdateOrderStatus(ctx context.Context, id string, to model.OrderStatus) error {
	current, ok := f.findOrder(id)
	if !ok {
		f.out.fail("Failed to update order: order not found")
		return ErrOrderNotFound
	}
	if _, err := f.orders.UpdateStatus(ctx, f.User(), current, to); err != nil {
		f.out.failWith("Failed to update order: ", err)
		return err
	}
	f.refresh(ctx)
	f.out.success("Order " + string(to) + " successfully!")
	return nil
}

func (f *Farmer) UpdateProfile(ctx context.Context, in user.ProfileInput) (model.User, error) {
	updated, err := updateProfile(ctx, f.users, f.sessions, f.out, f.User(), in)
	if err != nil {
		return model.User{}, err
	}
	f.mu.Lock()
	f.user = updated
	f.mu.Unlock()
	return updated, nil
}
