package dashboard

import (
	"context"
	"sync"
	"time"

	"agrimarket/internal/listing"
	"agrimarket/internal/logger"
	"agrimarket/internal/model"
	"agrimarket/internal/session"

	"go.uber.org/zap"
)

const loginForWishlist = "Please login to manage your wishlist."

// catalog is the crop listing shared by the public browse page and the buyer
// dashboard: the cached collection plus the criteria currently applied to it.
type catalog struct {
	gw     Gateway
	engine *listing.Engine

	mu       sync.Mutex
	criteria listing.Criteria
	sort     listing.SortKey
}

func newCatalog(gw Gateway) *catalog {
	return &catalog{gw: gw, engine: listing.NewEngine(), sort: listing.SortNewest}
}

// ensure fetches the collection the first time only.
func (c *catalog) ensure(ctx context.Context) error {
	if c.engine.Loaded() {
		return nil
	}
	return c.reload(ctx)
}

// EnsureLoaded is ensure for callers that act on a crop before any section
// was entered, such as a bookmarked order form.
func (c *catalog) EnsureLoaded(ctx context.Context) error {
	return c.ensure(ctx)
}

func (c *catalog) reload(ctx context.Context) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "dashboard"),
		zap.String("method", "LoadCrops"),
	)
	start := time.Now()

	crops, err := c.gw.ListCrops(ctx)
	if err != nil {
		log.Error("failed to load crops", zap.Error(err))
		return err
	}
	c.engine.Load(crops)

	log.Info("LoadCrops success", zap.Int("count", len(crops)), zap.Duration("duration", time.Since(start)))
	return nil
}

// Filter replaces the criteria. A criteria without a farmer id drops the pin.
func (c *catalog) Filter(cr listing.Criteria, key listing.SortKey) {
	c.mu.Lock()
	c.criteria = cr
	c.sort = key
	c.mu.Unlock()
}

// ClearFilters resets every criterion including the farmer pin.
func (c *catalog) ClearFilters() {
	c.mu.Lock()
	c.criteria = listing.Criteria{}
	c.mu.Unlock()
}

func (c *catalog) pin(farmerID, farmerName string) {
	c.mu.Lock()
	c.criteria = listing.Criteria{FarmerID: farmerID, FarmerName: farmerName}
	c.mu.Unlock()
}

// Current returns the active criteria and sort key.
func (c *catalog) Current() (listing.Criteria, listing.SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria, c.sort
}

func (c *catalog) View() listing.View {
	c.mu.Lock()
	cr, key := c.criteria, c.sort
	c.mu.Unlock()
	return c.engine.Apply(cr, key)
}

func (c *catalog) Facets() (categories, locations []string) {
	return c.engine.Facets()
}

func (c *catalog) Lookup(id string) (model.Crop, bool) {
	return c.engine.Lookup(id)
}

// toggleWishlist flips membership for u and reports it. Crops missing from
// the cache are still toggled under a generic name.
func toggleWishlist(ctx context.Context, store session.Store, out slot, c *catalog, u *model.User, cropID string) error {
	if u == nil || u.ID == "" {
		out.info(loginForWishlist)
		return nil
	}

	name := "Item"
	if cr, ok := c.Lookup(cropID); ok {
		name = cr.Name
	}

	added, err := store.ToggleWishlist(ctx, u.ID, cropID)
	if err != nil {
		logger.FromCtx(ctx).Error("wishlist toggle failed", zap.String("crop_id", cropID), zap.Error(err))
		out.fail("Could not update your wishlist.")
		return err
	}
	if added {
		out.success(name + " added to wishlist")
	} else {
		out.info(name + " removed from wishlist")
	}
	return nil
}

// Browse is the public listing page state.
type Browse struct {
	*catalog
	out      slot
	sessions session.Store
}

func newBrowse(sid string, d Deps) *Browse {
	return &Browse{
		catalog:  newCatalog(d.Gateway),
		out:      slot{sid: sid, notices: d.Notices},
		sessions: d.Sessions,
	}
}

// Load fetches the listing once. A failure leaves the page Unloaded and is
// reported to the session.
func (b *Browse) Load(ctx context.Context) error {
	if err := b.ensure(ctx); err != nil {
		b.out.fail("Failed to load crops. Please try again.")
		return err
	}
	return nil
}

// Refresh refetches the listing even when already loaded.
func (b *Browse) Refresh(ctx context.Context) error {
	if err := b.reload(ctx); err != nil {
		b.out.fail("Failed to load crops. Please try again.")
		return err
	}
	return nil
}

func (b *Browse) ToggleWishlist(ctx context.Context, u *model.User, cropID string) error {
	return toggleWishlist(ctx, b.sessions, b.out, b.catalog, u, cropID)
}
