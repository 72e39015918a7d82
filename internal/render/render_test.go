package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"agrimarket/internal/listing"
	"agrimarket/internal/model"
	"agrimarket/internal/navigator"
	"agrimarket/internal/notify"
	"agrimarket/internal/stats"
	"agrimarket/internal/wizard"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)

func TestNewCropCard(t *testing.T) {
	t.Run("Fallbacks", func(t *testing.T) {
		card := NewCropCard(model.Crop{ID: "c1", Name: "Okra", Price: decimal.RequireFromString("35.50")}, false, true)

		assert.Equal(t, UnknownFarmer, card.Farmer)
		assert.Equal(t, DefaultDescription, card.Description)
		assert.Equal(t, "Standard", card.Quality)
		assert.Equal(t, NotAvailable, card.Location)
		assert.Equal(t, "₹35.5", card.Price)
		assert.Contains(t, card.Image, "placehold.co")
	})

	t.Run("Populated", func(t *testing.T) {
		c := model.Crop{
			ID: "c2", Name: "Organic Tomatoes", Quality: "premium", Description: "Vine ripened",
			Farmer: model.Ref{ID: "f1", Name: "Ravi"}, Location: "Nashik", Price: decimal.NewFromInt(60),
		}
		card := NewCropCard(c, true, false)

		assert.Equal(t, "Ravi", card.Farmer)
		assert.Equal(t, "f1", card.FarmerID)
		assert.Equal(t, "Premium", card.Quality)
		assert.Equal(t, "Vine ripened", card.Description)
		assert.True(t, card.Organic)
		assert.True(t, card.Wished)
		assert.False(t, card.Orderable)
	})
}

func TestNewGrid(t *testing.T) {
	e := listing.NewEngine()
	assert.False(t, NewGrid(e.Apply(listing.Criteria{}, listing.SortNewest), nil, true).Loaded)

	e.Load([]model.Crop{
		{ID: "a", Name: "Rice", Farmer: model.Ref{ID: "f1", Name: "Ravi"}, Price: decimal.NewFromInt(20)},
		{ID: "b", Name: "Wheat", Farmer: model.Ref{ID: "f2"}, Price: decimal.NewFromInt(30)},
	})

	g := NewGrid(e.Apply(listing.Criteria{FarmerID: "f1"}, listing.SortPriceAsc), func(id string) bool { return id == "a" }, true)
	require.Len(t, g.Cards, 1)
	assert.True(t, g.Cards[0].Wished)
	assert.Equal(t, "Ravi", g.Pinned)
	assert.Equal(t, "Showing 1 crops", g.Summary)
	assert.Equal(t, "Sorted by price: Low to High", g.Sort)
}

func TestNewGrid_PinnedWithoutListings(t *testing.T) {
	e := listing.NewEngine()
	e.Load([]model.Crop{{ID: "a", Farmer: model.Ref{ID: "f1", Name: "Ravi"}}})

	g := NewGrid(e.Apply(listing.Criteria{FarmerID: "f9", FarmerName: "Meena"}, listing.SortNewest), nil, true)
	assert.Empty(t, g.Cards)
	assert.Equal(t, "Meena", g.Pinned)

	g = NewGrid(e.Apply(listing.Criteria{FarmerID: "f9"}, listing.SortNewest), nil, true)
	assert.Equal(t, UnknownFarmer, g.Pinned)
}

func TestQualityBadge(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Standard"},
		{"  ", "Standard"},
		{"PREMIUM", "Premium"},
		{"standard", "Standard"},
		{"élite", "Élite"},
		{"ñandú", "Ñandú"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QualityBadge(tt.in), tt.in)
	}
}

func TestNewCropRow_Toggle(t *testing.T) {
	assert.Equal(t, model.CropSoldOut, NewCropRow(model.Crop{Status: model.CropAvailable}).Toggle)
	assert.Equal(t, model.CropAvailable, NewCropRow(model.Crop{Status: model.CropSoldOut}).Toggle)
	assert.Empty(t, NewCropRow(model.Crop{Status: model.CropPending}).Toggle)
	assert.Equal(t, "Sold Out", NewCropRow(model.Crop{Status: model.CropSoldOut}).Status)
}

func TestNewOrderRow(t *testing.T) {
	t.Run("Snapshot survives deleted references", func(t *testing.T) {
		o := model.Order{
			ID: "65f0c2a9e1b2c3d4e5f60718", CropName: "Rice", BuyerName: "Asha",
			Buyer: model.Ref{ID: "b1"}, Farmer: model.Ref{ID: "f1"}, Crop: model.Ref{ID: "gone"},
			Quantity: 5, CropPrice: decimal.NewFromInt(20), TotalAmount: decimal.NewFromInt(100),
			Status: model.OrderPending, CreatedAt: day,
		}
		row := NewOrderRow(o)

		assert.Equal(t, "e5f60718", row.ShortID)
		assert.Equal(t, "Rice", row.Crop)
		assert.Equal(t, "Asha", row.Buyer)
		assert.Equal(t, UnknownFarmer, row.Farmer)
		assert.Equal(t, "₹100", row.Total)
		assert.Equal(t, "09/03/2024", row.Date)
		assert.Empty(t, row.Actions)
	})

	t.Run("Nothing to fall back on", func(t *testing.T) {
		row := NewOrderRow(model.Order{ID: "o1"})
		assert.Equal(t, NotAvailable, row.Crop)
		assert.Equal(t, NotAvailable, row.Buyer)
		assert.Equal(t, NotAvailable, row.Date)
		assert.Equal(t, NotAvailable, row.Status)
	})

	t.Run("Farmer rows carry transitions", func(t *testing.T) {
		rows := NewFarmerOrderRows([]model.Order{
			{ID: "o1", Status: model.OrderPending},
			{ID: "o2", Status: model.OrderDelivered},
		})
		require.Len(t, rows, 2)
		require.Len(t, rows[0].Actions, 2)
		assert.Equal(t, "Confirm Order", rows[0].Actions[0].Label)
		assert.Empty(t, rows[1].Actions)
	})
}

func TestUserProjections(t *testing.T) {
	admin := model.User{ID: "a1", Name: "Root", Role: model.RoleAdmin}
	buyer := model.User{ID: "b1", Name: "Asha", Role: model.RoleBuyer}

	assert.False(t, NewUserRow(admin).Deletable)
	assert.True(t, NewUserRow(buyer).Deletable)

	farmer := model.User{
		ID: "f1", Name: "Ravi", Role: model.RoleSeller,
		Address:       &model.Address{Village: "Rampur", District: "Nashik", State: "MH", Pincode: "422001"},
		FarmerDetails: &model.FarmerDetails{LandSize: "5", AadharCardURL: "https://cdn/a", PrimaryCrops: []string{"rice", "wheat"}},
	}

	card := NewFarmerCard(farmer)
	assert.Equal(t, "Rampur", card.Village)
	assert.Equal(t, "rice, wheat", card.Crops)
	assert.Equal(t, NotAvailable, card.Phone)

	row := NewFarmerRow(farmer)
	assert.Equal(t, "5", row.LandSize)
	assert.False(t, row.Documents)

	d := NewDetails(farmer, true)
	assert.True(t, d.Found)
	assert.Equal(t, "Rampur, Nashik, MH - 422001", d.Address)
	require.Len(t, d.Documents, 1)
	assert.Equal(t, "Aadhar Card", d.Documents[0].Label)

	assert.False(t, NewDetails(model.User{}, false).Found)
}

func TestStatCards(t *testing.T) {
	b := BuyerCards(stats.Buyer{Total: 3, Completed: 1, Pending: 2, Spent: decimal.NewFromInt(100)})
	assert.Equal(t, "₹100.00", b[3].Value)

	f := FarmerCards(stats.Farmer{Earnings: decimal.RequireFromString("99.6")})
	assert.Equal(t, "₹100", f[2].Value)

	a := AdminCards(stats.Admin{TotalUsers: 7, Revenue: decimal.NewFromInt(250)})
	assert.Equal(t, "7", a[0].Value)
	assert.Equal(t, "₹250", a[6].Value)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Sold Out", StatusLabel("sold_out"))
	assert.Equal(t, "Pending", StatusLabel("pending"))
	assert.Equal(t, "Seller", StatusLabel("seller"))
	assert.Equal(t, NotAvailable, StatusLabel(""))
}

func TestNewWizardView(t *testing.T) {
	w := wizard.NewRegistration(nil)
	w.Set("fullName", "Ravi")
	w.Set("password", "secret1")

	v := NewWizardView(w)
	assert.Equal(t, 1, v.Step)
	assert.Equal(t, 25, v.Percent)
	assert.Equal(t, "Next Step", v.NextLabel)
	assert.False(t, v.CanPrev)
	assert.False(t, v.Disabled)

	byName := map[string]WizardField{}
	for _, f := range v.Fields {
		byName[f.Name] = f
	}
	assert.Equal(t, "Ravi", byName["fullName"].Value)
	assert.Equal(t, "password", byName["password"].Type)
	assert.Empty(t, byName["password"].Value)
	assert.Equal(t, "email", byName["email"].Type)
}

func TestNewWizardView_CropList(t *testing.T) {
	w, err := wizard.New(wizard.Step{Title: "Farm Details", Fields: []wizard.Field{
		{Name: "primaryCrops", Label: "Primary Crops", Kind: wizard.List, Options: wizard.CropOptions},
	}})
	require.NoError(t, err)
	w.SetList("primaryCrops", []string{"maize"})

	v := NewWizardView(w)
	require.Len(t, v.Fields, 1)
	f := v.Fields[0]
	assert.Equal(t, "list", f.Type)
	require.Len(t, f.Options, len(wizard.CropOptions))
	for _, o := range f.Options {
		assert.Equal(t, o.Value == "maize", o.Checked, o.Value)
	}
}

func TestNewBanner(t *testing.T) {
	assert.Nil(t, NewBanner(notify.Notification{}, false))
	b := NewBanner(notify.Notification{Kind: notify.Success, Message: "Saved"}, true)
	require.NotNil(t, b)
	assert.Equal(t, "success", b.Kind)
}

func TestRenderer(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	t.Run("CropCardsEscape", func(t *testing.T) {
		html, err := r.CropCards([]CropCard{NewCropCard(model.Crop{ID: "c1", Name: "<script>x</script>"}, true, true)})
		require.NoError(t, err)
		s := string(html)
		assert.NotContains(t, s, "<script>x</script>")
		assert.Contains(t, s, "&lt;script&gt;")
		assert.Contains(t, s, "heart active")
		assert.Contains(t, s, "Fresh farm produce, harvested with care.")
	})

	t.Run("EmptyStates", func(t *testing.T) {
		for _, tc := range []struct {
			render func() (string, error)
			want   string
		}{
			{func() (string, error) { h, err := r.CropCards(nil); return string(h), err }, "Your wishlist is empty."},
			{func() (string, error) { h, err := r.BuyerOrders(nil); return string(h), err }, "You have not placed any orders yet."},
			{func() (string, error) { h, err := r.FarmerOrders(nil); return string(h), err }, "No orders yet"},
			{func() (string, error) { h, err := r.AdminOrders(nil); return string(h), err }, "No orders found"},
			{func() (string, error) { h, err := r.VerifiedFarmers(nil); return string(h), err }, "No verified farmers are available at the moment."},
			{func() (string, error) { h, err := r.AdminFarmers(nil); return string(h), err }, "No farmers registered yet"},
			{func() (string, error) { h, err := r.Approvals(Approvals{}); return string(h), err }, "No pending approvals"},
			{func() (string, error) { h, err := r.Activity(nil); return string(h), err }, "No recent activity"},
			{func() (string, error) { h, err := r.Details(Details{}); return string(h), err }, DetailsNotFound},
			{func() (string, error) { h, err := r.FarmerCrops(nil); return string(h), err }, "No crops listed yet"},
		} {
			s, err := tc.render()
			require.NoError(t, err)
			assert.Contains(t, s, tc.want)
		}
	})

	t.Run("FarmerOrderActions", func(t *testing.T) {
		html, err := r.FarmerOrders(NewFarmerOrderRows([]model.Order{{ID: "abcdefgh12345678", Status: model.OrderConfirmed}}))
		require.NoError(t, err)
		s := string(html)
		assert.Contains(t, s, "#12345678")
		assert.Contains(t, s, "/farmer/orders/abcdefgh12345678/status")
		assert.Contains(t, s, "Mark as Shipped")
		assert.Contains(t, s, "Cancel Order")
		assert.NotContains(t, s, "Confirm Order")
	})

	t.Run("UsersHideAdminDelete", func(t *testing.T) {
		html, err := r.Users([]UserRow{
			NewUserRow(model.User{ID: "a1", Role: model.RoleAdmin}),
			NewUserRow(model.User{ID: "b1", Role: model.RoleBuyer}),
		})
		require.NoError(t, err)
		s := string(html)
		assert.Contains(t, s, "/admin/users/b1/delete")
		assert.NotContains(t, s, "/admin/users/a1/delete")
	})

	t.Run("Browse", func(t *testing.T) {
		e := listing.NewEngine()
		e.Load([]model.Crop{{ID: "a", Name: "Rice", Farmer: model.Ref{ID: "f1", Name: "Ravi"}}})
		cats, locs := e.Facets()
		view := e.Apply(listing.Criteria{Query: "mango"}, listing.SortPriceDesc)

		html, err := r.Browse(Browse{Action: "/", Criteria: view.Criteria, Sort: view.Sort, Categories: cats, Locations: locs, Grid: NewGrid(view, nil, false)})
		require.NoError(t, err)
		s := string(html)
		assert.Contains(t, s, "No crops match your filters.")
		assert.Contains(t, s, `value="high-low" selected`)
	})

	t.Run("Wizard", func(t *testing.T) {
		html, err := r.Wizard(NewWizardView(wizard.NewRegistration(nil)))
		require.NoError(t, err)
		s := string(html)
		assert.Contains(t, s, "Step 1 of 4")
		assert.Contains(t, s, "Next Step")
		assert.NotContains(t, s, "Previous")
	})

	t.Run("Page", func(t *testing.T) {
		nav := navigator.MustNew(
			navigator.Spec{Section: "crops", Label: "My Crops"},
			navigator.Spec{Section: "orders", Label: "Orders"},
		)
		body, err := r.Stats(FarmerCards(stats.Farmer{TotalCrops: 2}))
		require.NoError(t, err)

		var buf bytes.Buffer
		err = r.Page(&buf, Page{
			Title:   "Farmer Dashboard",
			User:    "Ravi",
			Nav:     nav.Controls(),
			NavBase: "/farmer",
			Banner:  &Banner{Kind: "error", Message: "Failed to load orders"},
			Body:    body,
		})
		require.NoError(t, err)
		s := buf.String()
		assert.Contains(t, s, `<title>Farmer Dashboard | AgriMarket</title>`)
		assert.Contains(t, s, "notification-error")
		assert.Contains(t, s, "Total Crops")
		assert.Equal(t, 1, strings.Count(s, `aria-current="page"`))
		assert.Contains(t, s, `href="/farmer/crops"`)
	})
}
