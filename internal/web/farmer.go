package web

import (
	"net/http"
	"strconv"

	"agrimarket/internal/crop"
	"agrimarket/internal/dashboard"
	"agrimarket/internal/logger"
	"agrimarket/internal/model"
	"agrimarket/internal/navigator"
	"agrimarket/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const farmerBase = "/farmer"

func (h *Handler) farmer(w http.ResponseWriter, r *http.Request) (*dashboard.Farmer, bool) {
	u, ok := h.currentUser(r)
	if !ok || u.Role != model.RoleSeller {
		h.deny("farmer")(w, r)
		return nil, false
	}
	return h.Registry.Farmer(sessionID(r), u), true
}

// loadedFarmer also makes sure the batch is there before acting on a row.
func (h *Handler) loadedFarmer(w http.ResponseWriter, r *http.Request) (*dashboard.Farmer, bool) {
	f, ok := h.farmer(w, r)
	if !ok {
		return nil, false
	}
	if len(f.Crops()) == 0 && len(f.Orders()) == 0 {
		s := f.Nav().Active()
		if s == dashboard.FarmerProfile {
			s = dashboard.FarmerCrops
		}
		_ = f.Enter(r.Context(), s)
	}
	return f, true
}

func (h *Handler) FarmerHome(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, farmerBase+"/"+string(dashboard.FarmerCrops))
}

func (h *Handler) FarmerSection(w http.ResponseWriter, r *http.Request) {
	f, ok := h.farmer(w, r)
	if !ok {
		return
	}
	section := navigator.Section(chi.URLParam(r, "section"))
	if err := f.Enter(r.Context(), section); err != nil {
		http.NotFound(w, r)
		return
	}

	var out body
	switch section {
	case dashboard.FarmerCrops:
		out.add(h.Renderer.Stats(render.FarmerCards(f.Stats())))
		out.add(h.Renderer.FarmerCrops(render.NewCropRows(f.Crops())))
	case dashboard.FarmerOrders:
		out.add(h.Renderer.Stats(render.FarmerCards(f.Stats())))
		out.add(h.Renderer.FarmerOrders(render.NewFarmerOrderRows(f.Orders())))
	case dashboard.FarmerProfile:
		out.add(h.Renderer.Profile(render.NewProfile(farmerBase+"/profile", f.User())))
	}

	html, err := out.html()
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, render.Page{
		Title:   "Farmer Dashboard",
		User:    f.User().Name,
		Nav:     f.Nav().Controls(),
		NavBase: farmerBase,
		Body:    html,
	})
}

// cropInput reads the add and edit form. Unparsable numbers become zero and
// are rejected by validation.
func cropInput(r *http.Request) crop.Input {
	price, err := decimal.NewFromString(formTrim(r, "price"))
	if err != nil {
		price = decimal.Zero
	}
	qty, _ := strconv.Atoi(formTrim(r, "quantity"))
	return crop.Input{
		Name:        formTrim(r, "name"),
		Category:    formTrim(r, "category"),
		Price:       price,
		Quantity:    qty,
		Description: formTrim(r, "description"),
		Quality:     formTrim(r, "quality"),
		HarvestDate: formTrim(r, "harvestDate"),
	}
}

func (h *Handler) AddCrop(w http.ResponseWriter, r *http.Request) {
	f, ok := h.farmer(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := parseForm(r); err != nil {
		h.Notices.Error(sessionID(r), "Could not read the form. Please try again.")
		redirect(w, r, farmerBase+"/crops")
		return
	}

	image, err := formFile(r, "image")
	if err != nil {
		logger.FromCtx(ctx).Warn("crop image unreadable", zap.Error(err))
		h.Notices.Error(sessionID(r), "Could not read the uploaded file.")
		redirect(w, r, farmerBase+"/crops")
		return
	}

	_, _ = f.AddCrop(ctx, cropInput(r), image)
	redirect(w, r, farmerBase+"/crops")
}

func (h *Handler) UpdateCrop(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadedFarmer(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	_, _ = f.UpdateCrop(r.Context(), chi.URLParam(r, "id"), cropInput(r))
	redirect(w, r, farmerBase+"/crops")
}

func (h *Handler) SetCropStatus(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadedFarmer(w, r)
	if !ok {
		return
	}
	_ = f.SetCropStatus(r.Context(), chi.URLParam(r, "id"), model.CropStatus(r.FormValue("status")))
	redirect(w, r, farmerBase+"/crops")
}

func (h *Handler) DeleteCrop(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadedFarmer(w, r)
	if !ok {
		return
	}
	_ = f.DeleteCrop(r.Context(), chi.URLParam(r, "id"))
	redirect(w, r, farmerBase+"/crops")
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadedFarmer(w, r)
	if !ok {
		return
	}
	_ = f.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), model.OrderStatus(r.FormValue("status")))
	redirect(w, r, farmerBase+"/orders")
}

func (h *Handler) FarmerProfile(w http.ResponseWriter, r *http.Request) {
	f, ok := h.farmer(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	_, _ = f.UpdateProfile(r.Context(), profileInput(r))
	redirect(w, r, farmerBase+"/profile")
}
