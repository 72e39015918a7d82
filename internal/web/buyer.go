package web

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"agrimarket/internal/dashboard"
	"agrimarket/internal/model"
	"agrimarket/internal/navigator"
	"agrimarket/internal/render"
	"agrimarket/internal/user"

	"github.com/go-chi/chi/v5"
)

const buyerBase = "/buyer"

// buyer returns the session's buyer dashboard, or denies the request.
func (h *Handler) buyer(w http.ResponseWriter, r *http.Request) (*dashboard.Buyer, bool) {
	u, ok := h.currentUser(r)
	if !ok || u.Role != model.RoleBuyer {
		h.deny("buyer")(w, r)
		return nil, false
	}
	return h.Registry.Buyer(sessionID(r), u), true
}

func (h *Handler) BuyerHome(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, buyerBase+"/"+string(dashboard.BuyerBrowse))
}

func (h *Handler) BuyerSection(w http.ResponseWriter, r *http.Request) {
	b, ok := h.buyer(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	section := navigator.Section(chi.URLParam(r, "section"))
	if section == dashboard.BuyerBrowse {
		applyFilters(b, r.URL.Query())
	}
	if err := b.Enter(ctx, section); err != nil {
		http.NotFound(w, r)
		return
	}

	var out body
	switch section {
	case dashboard.BuyerBrowse:
		out.add(h.browseBody(b, buyerBase+"/browse", b.InWishlist(ctx), true))
	case dashboard.BuyerOrders:
		history, summary := b.Orders()
		out.add(h.Renderer.Stats(render.BuyerCards(summary)))
		out.add(h.Renderer.BuyerOrders(render.NewOrderRows(history)))
	case dashboard.BuyerFarmers:
		farmers := b.Farmers()
		cards := make([]render.FarmerCard, 0, len(farmers))
		for _, f := range farmers {
			cards = append(cards, render.NewFarmerCard(f))
		}
		out.add(h.Renderer.VerifiedFarmers(cards))
	case dashboard.BuyerWishlist:
		items, err := b.Wishlist(ctx)
		if err != nil {
			h.Notices.Error(sessionID(r), "Could not load your wishlist.")
		}
		cards := make([]render.CropCard, 0, len(items))
		for _, c := range items {
			cards = append(cards, render.NewCropCard(c, true, true))
		}
		out.add(h.Renderer.CropCards(cards))
	case dashboard.BuyerProfile:
		out.add(h.Renderer.Profile(render.NewProfile(buyerBase+"/profile", b.User())))
	}

	html, err := out.html()
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.buyerPage(w, r, b, html)
}

func (h *Handler) buyerPage(w http.ResponseWriter, r *http.Request, b *dashboard.Buyer, html template.HTML) {
	h.page(w, r, render.Page{
		Title:   "Buyer Dashboard",
		User:    b.User().Name,
		Nav:     b.Nav().Controls(),
		NavBase: buyerBase,
		Body:    html,
	})
}

func (h *Handler) OrderForm(w http.ResponseWriter, r *http.Request) {
	b, ok := h.buyer(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	_ = b.EnsureLoaded(ctx)

	c, found := b.Lookup(chi.URLParam(r, "id"))
	if !found {
		h.Notices.Error(sessionID(r), "Crop details not found.")
		redirect(w, r, buyerBase+"/browse")
		return
	}

	html, err := h.Renderer.OrderForm(render.OrderForm{
		Crop:     render.NewCropCard(c, b.InWishlist(ctx)(c.ID), true),
		Quantity: "1",
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.buyerPage(w, r, b, html)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	b, ok := h.buyer(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	_ = b.EnsureLoaded(ctx)

	id := chi.URLParam(r, "id")
	qty, _ := strconv.Atoi(formTrim(r, "quantity"))
	_, err := b.PlaceOrder(ctx, id, qty, formTrim(r, "deliveryAddress"), formTrim(r, "specialInstructions"))
	switch {
	case err == nil:
		redirect(w, r, buyerBase+"/orders")
	case errors.Is(err, dashboard.ErrCropNotFound):
		redirect(w, r, buyerBase+"/browse")
	default:
		redirect(w, r, buyerBase+"/order/"+id)
	}
}

func (h *Handler) ViewFarmerCrops(w http.ResponseWriter, r *http.Request) {
	b, ok := h.buyer(w, r)
	if !ok {
		return
	}
	_ = b.ViewFarmerCrops(r.Context(), chi.URLParam(r, "id"))
	redirect(w, r, buyerBase+"/browse")
}

func profileInput(r *http.Request) user.ProfileInput {
	return user.ProfileInput{
		Name:  formTrim(r, "name"),
		Email: formTrim(r, "email"),
		Phone: formTrim(r, "phone"),
		Address: model.Address{
			Village:  formTrim(r, "village"),
			District: formTrim(r, "district"),
			State:    formTrim(r, "state"),
			Pincode:  formTrim(r, "pincode"),
		},
	}
}

func (h *Handler) BuyerProfile(w http.ResponseWriter, r *http.Request) {
	b, ok := h.buyer(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	_, _ = b.UpdateProfile(r.Context(), profileInput(r))
	redirect(w, r, buyerBase+"/profile")
}
