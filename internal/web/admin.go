package web

import (
	"net/http"

	"agrimarket/internal/dashboard"
	"agrimarket/internal/model"
	"agrimarket/internal/navigator"
	"agrimarket/internal/render"
	"agrimarket/internal/stats"

	"github.com/go-chi/chi/v5"
)

const adminBase = "/admin"

func (h *Handler) admin(w http.ResponseWriter, r *http.Request) (*dashboard.Admin, bool) {
	u, ok := h.currentUser(r)
	if !ok || u.Role != model.RoleAdmin {
		h.deny("admin")(w, r)
		return nil, false
	}
	return h.Registry.Admin(sessionID(r), u), true
}

// withUsers loads the user list when no section has fetched it yet.
func (h *Handler) withUsers(w http.ResponseWriter, r *http.Request) (*dashboard.Admin, bool) {
	a, ok := h.admin(w, r)
	if ok && len(a.Users()) == 0 {
		_ = a.Enter(r.Context(), dashboard.AdminFarmers)
	}
	return a, ok
}

// withCrops loads the listing and the pending queue when neither is cached.
func (h *Handler) withCrops(w http.ResponseWriter, r *http.Request) (*dashboard.Admin, bool) {
	a, ok := h.admin(w, r)
	if ok && len(a.Crops()) == 0 && a.Overview() == nil {
		_ = a.Enter(r.Context(), dashboard.AdminOverview)
	}
	return a, ok
}

func (h *Handler) AdminHome(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, adminBase+"/"+string(dashboard.AdminOverview))
}

func (h *Handler) AdminSection(w http.ResponseWriter, r *http.Request) {
	a, ok := h.admin(w, r)
	if !ok {
		return
	}
	section := navigator.Section(chi.URLParam(r, "section"))
	if err := a.Enter(r.Context(), section); err != nil {
		http.NotFound(w, r)
		return
	}

	var out body
	switch section {
	case dashboard.AdminOverview:
		out.add(h.Renderer.Overview(overview(a.Overview())))
	case dashboard.AdminFarmers:
		farmers := a.Farmers()
		rows := make([]render.FarmerRow, 0, len(farmers))
		for _, f := range farmers {
			rows = append(rows, render.NewFarmerRow(f))
		}
		out.add(h.Renderer.AdminFarmers(rows))
	case dashboard.AdminCrops:
		out.add(h.Renderer.AdminCrops(render.NewCropRows(a.Crops())))
	case dashboard.AdminOrders:
		out.add(h.Renderer.AdminOrders(render.NewOrderRows(a.Orders())))
	case dashboard.AdminUsers:
		people := a.Users()
		rows := make([]render.UserRow, 0, len(people))
		for _, u := range people {
			rows = append(rows, render.NewUserRow(u))
		}
		out.add(h.Renderer.Users(rows))
	}

	h.adminPage(w, r, a, &out)
}

func overview(batch *stats.AdminBatch) render.Overview {
	if batch == nil {
		return render.Overview{Stats: render.AdminCards(stats.Admin{})}
	}
	return render.Overview{
		Stats:     render.AdminCards(batch.Stats),
		Approvals: render.NewApprovals(batch.PendingFarmers, batch.PendingCrops),
		Activity:  render.NewActivity(batch.Recent),
	}
}

func (h *Handler) adminPage(w http.ResponseWriter, r *http.Request, a *dashboard.Admin, out *body) {
	html, err := out.html()
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, render.Page{
		Title:   "Admin Dashboard",
		User:    a.User().Name,
		Nav:     a.Nav().Controls(),
		NavBase: adminBase,
		Body:    html,
	})
}

func (h *Handler) FarmerDetails(w http.ResponseWriter, r *http.Request) {
	a, ok := h.withUsers(w, r)
	if !ok {
		return
	}
	u, found := a.FarmerDetails(chi.URLParam(r, "id"))
	var out body
	out.add(h.Renderer.Details(render.NewDetails(u, found)))
	h.adminPage(w, r, a, &out)
}

func (h *Handler) VerifyFarmer(w http.ResponseWriter, r *http.Request) {
	a, ok := h.withUsers(w, r)
	if !ok {
		return
	}
	_ = a.VerifyFarmer(r.Context(), chi.URLParam(r, "id"))
	redirect(w, r, backTo(r, adminBase+"/farmers"))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	a, ok := h.withUsers(w, r)
	if !ok {
		return
	}
	_ = a.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	redirect(w, r, adminBase+"/users")
}

func (h *Handler) ApproveCrop(w http.ResponseWriter, r *http.Request) {
	a, ok := h.withCrops(w, r)
	if !ok {
		return
	}
	_ = a.ApproveCrop(r.Context(), chi.URLParam(r, "id"))
	redirect(w, r, backTo(r, adminBase+"/crops"))
}

func (h *Handler) AdminDeleteCrop(w http.ResponseWriter, r *http.Request) {
	a, ok := h.withCrops(w, r)
	if !ok {
		return
	}
	_ = a.DeleteCrop(r.Context(), chi.URLParam(r, "id"))
	redirect(w, r, backTo(r, adminBase+"/crops"))
}
