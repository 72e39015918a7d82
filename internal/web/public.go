package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"agrimarket/internal/gateway"
	"agrimarket/internal/listing"
	"agrimarket/internal/logger"
	"agrimarket/internal/model"
	"agrimarket/internal/render"
	"agrimarket/internal/session"
	"agrimarket/internal/user"
	"agrimarket/internal/utils"
	"agrimarket/internal/wizard"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	loggedIn  = "Logged in successfully!"
	loggedOut = "You have been logged out."
)

var criteriaParams = []string{"q", "category", "location", "quality", "organic"}

// catalogView is what the browse and buyer listing pages share.
type catalogView interface {
	Filter(cr listing.Criteria, key listing.SortKey)
	ClearFilters()
	Current() (listing.Criteria, listing.SortKey)
	View() listing.View
	Facets() (categories, locations []string)
}

// applyFilters updates the criteria from the query string. A farmer pin is
// dropped only by clear=1 or by criteria that actually narrow the listing,
// so a sort change or a default filter form keeps it.
func applyFilters(c catalogView, q url.Values) {
	if q.Get("clear") != "" {
		c.ClearFilters()
		return
	}
	cur, key := c.Current()
	if q.Has("sort") {
		key = listing.ParseSortKey(q.Get("sort"))
	}

	submitted := false
	for _, p := range criteriaParams {
		submitted = submitted || q.Has(p)
	}
	next := listing.Criteria{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Quality:  q.Get("quality"),
		Organic:  q.Get("organic"),
	}
	switch {
	case submitted && (!cur.Pinned() || next.Narrows()):
		c.Filter(next, key)
	case submitted || q.Has("sort"):
		c.Filter(cur, key)
	}
}

func (h *Handler) browseBody(c catalogView, action string, wished func(string) bool, orderable bool) (template.HTML, error) {
	v := c.View()
	categories, locations := c.Facets()
	return h.Renderer.Browse(render.Browse{
		Action:     action,
		Criteria:   v.Criteria,
		Sort:       v.Sort,
		Categories: categories,
		Locations:  locations,
		Grid:       render.NewGrid(v, wished, orderable),
	})
}

func (h *Handler) wishlistOf(ctx context.Context, userID string) func(string) bool {
	ids, err := h.Sessions.Wishlist(ctx, userID)
	if err != nil {
		logger.FromCtx(ctx).Warn("wishlist lookup failed", zap.Error(err))
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

// failureText shows validation messages as is and prefixes backend errors.
func failureText(err error) string {
	var ve *user.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return "Error: " + gateway.Message(err)
}

// ---------- handlers ----------

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handler) BrowsePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b := h.Registry.Browse(sessionID(r))
	applyFilters(b, r.URL.Query())
	_ = b.Load(ctx)

	var wished func(string) bool
	u, ok := h.currentUser(r)
	if ok {
		wished = h.wishlistOf(ctx, u.ID)
	}

	html, err := h.browseBody(b, "/", wished, ok && u.Role == model.RoleBuyer)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, render.Page{Title: "Browse Crops", Body: html})
}

func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionID(r)
	id := chi.URLParam(r, "id")

	u, ok := h.currentUser(r)
	switch {
	case !ok:
		_ = h.Registry.Browse(sid).ToggleWishlist(ctx, nil, id)
		redirect(w, r, "/login")
		return
	case u.Role == model.RoleBuyer:
		b := h.Registry.Buyer(sid, u)
		_ = b.EnsureLoaded(ctx)
		_ = b.ToggleWishlist(ctx, id)
	default:
		b := h.Registry.Browse(sid)
		_ = b.EnsureLoaded(ctx)
		_ = b.ToggleWishlist(ctx, &u, id)
	}
	redirect(w, r, backTo(r, "/"))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, title string, html template.HTML, err error) {
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, render.Page{Title: title, Body: html})
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if u, ok := h.currentUser(r); ok {
		redirect(w, r, user.HomePath(u.Role))
		return
	}
	html, err := h.Renderer.Login(render.LoginForm{})
	h.renderForm(w, r, "Login", html, err)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionID(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	email := formTrim(r, "email")
	u, home, err := h.Users.Login(ctx, email, r.FormValue("password"))
	if err == nil {
		err = h.Sessions.SaveUser(ctx, sid, u)
		if err != nil {
			logger.FromCtx(ctx).Error("save session user failed", zap.Error(err))
		}
	}
	if err != nil {
		h.Notices.Error(sid, failureText(err))
		html, rerr := h.Renderer.Login(render.LoginForm{Email: email})
		h.renderForm(w, r, "Login", html, rerr)
		return
	}

	h.Registry.Clear(sid)
	h.wizards.drop(sid)
	h.Notices.Success(sid, loggedIn)
	redirect(w, r, home)
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	html, err := h.Renderer.Signup(render.SignupForm{})
	h.renderForm(w, r, "Sign Up", html, err)
}

// Signup creates buyers directly. Farmers continue in the registration
// wizard, pre-filled from this form.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionID(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := render.SignupForm{
		Name:  formTrim(r, "name"),
		Email: formTrim(r, "email"),
		Phone: formTrim(r, "phone"),
	}

	if model.Role(r.FormValue("role")).Normalize() == model.RoleSeller {
		if err := h.Sessions.SaveDraft(ctx, sid, session.Draft{Name: form.Name, Email: form.Email, Phone: form.Phone}); err != nil {
			logger.FromCtx(ctx).Warn("save registration draft failed", zap.Error(err))
		}
		h.wizards.drop(sid)
		redirect(w, r, "/register")
		return
	}

	msg, err := h.Users.Signup(ctx, user.SignupInput{
		Name:        form.Name,
		Email:       form.Email,
		Phone:       form.Phone,
		Password:    r.FormValue("password"),
		AcceptTerms: r.FormValue("terms") != "",
	})
	if err != nil {
		h.Notices.Error(sid, failureText(err))
		html, rerr := h.Renderer.Signup(form)
		h.renderForm(w, r, "Sign Up", html, rerr)
		return
	}

	h.Notices.Success(sid, msg)
	redirect(w, r, "/login")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionID(r)
	if err := h.Sessions.ClearUser(ctx, sid); err != nil {
		logger.FromCtx(ctx).Warn("clear session user failed", zap.Error(err))
	}
	h.Registry.Clear(sid)
	h.wizards.drop(sid)
	h.Notices.Info(sid, loggedOut)
	redirect(w, r, "/")
}

func (h *Handler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	h.Notices.Dismiss(sessionID(r))
	redirect(w, r, backTo(r, "/"))
}

// ---------- registration ----------

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	wz := h.wizards.get(r.Context(), h.Sessions, sessionID(r))
	html, err := h.Renderer.Wizard(render.NewWizardView(wz))
	h.renderForm(w, r, "Farmer Registration", html, err)
}

// Register applies the posted step and moves the wizard. A form posted for
// another step than the current one is ignored.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionID(r)
	if err := parseForm(r); err != nil {
		h.Notices.Error(sid, "Could not read the form. Please try again.")
		redirect(w, r, "/register")
		return
	}

	wz := h.wizards.get(ctx, h.Sessions, sid)
	if step, _ := strconv.Atoi(r.FormValue("step")); step != wz.Step() {
		redirect(w, r, "/register")
		return
	}
	if err := applyStep(r, wz); err != nil {
		logger.FromCtx(ctx).Warn("registration upload unreadable", zap.Error(err))
		h.Notices.Error(sid, "Could not read the uploaded file.")
		redirect(w, r, "/register")
		return
	}

	switch {
	case r.FormValue("nav") == "prev":
		wz.Prev()
	case !wz.IsFinal():
		if err := wz.Next(); err != nil {
			h.Notices.Error(sid, wizard.Message(err))
		}
	default:
		if err := wz.Submit(ctx, h.Registrar.Submit); err != nil {
			h.Notices.Error(sid, wizard.Message(err))
			break
		}
		h.wizards.drop(sid)
		h.Notices.Success(sid, wizard.RegisteredMessage)
		redirect(w, r, "/login")
		return
	}
	redirect(w, r, "/register")
}

// applyStep copies the current step's inputs into the wizard. An empty
// password or file input keeps what was entered before.
func applyStep(r *http.Request, wz *wizard.Wizard) error {
	for _, f := range wz.Current().Fields {
		switch f.Kind {
		case wizard.Checkbox:
			wz.SetChecked(f.Name, r.FormValue(f.Name) != "")
		case wizard.List:
			wz.SetList(f.Name, f.Pick(r.Form[f.Name]))
		case wizard.File:
			file, err := formFile(r, f.Name)
			if err != nil {
				return err
			}
			if file != nil {
				wz.Attach(f.Name, *file)
			}
		default:
			v := r.FormValue(f.Name)
			if f.Name == "password" && v == "" {
				continue
			}
			wz.Set(f.Name, v)
		}
	}
	return nil
}

// ---------- operator ----------

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"sessions": h.Registry.Len()}
	if h.Stats != nil {
		out["gateway"] = h.Stats.Snapshot()
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

func (h *Handler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	if h.Audit == nil {
		utils.WriteJSONError(w, "audit log disabled", http.StatusNotFound)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := h.Audit.Recent(r.Context(), limit)
	if err != nil {
		logger.FromCtx(r.Context()).Error("audit read failed", zap.Error(err))
		utils.WriteJSONError(w, "audit log unavailable", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, entries, http.StatusOK)
}
