package web

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"agrimarket/internal/audit"
	"agrimarket/internal/dashboard"
	"agrimarket/internal/logger"
	"agrimarket/internal/media"
	"agrimarket/internal/metrics"
	"agrimarket/internal/model"
	"agrimarket/internal/notify"
	"agrimarket/internal/render"
	"agrimarket/internal/session"
	"agrimarket/internal/user"
	"agrimarket/internal/utils"
	"agrimarket/internal/wizard"

	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

// Registrar creates the farmer account once the wizard is complete.
type Registrar interface {
	Submit(ctx context.Context, v wizard.Values) error
}

type AuditLog interface {
	Recent(ctx context.Context, limit int) ([]audit.Entry, error)
}

type Deps struct {
	Registry  *dashboard.Registry
	Sessions  session.Store
	Notices   *notify.Center
	Users     user.Service
	Registrar Registrar
	Renderer  *render.Renderer
	Stats     *metrics.Set
	// Audit is nil when no database is configured.
	Audit AuditLog
}

// Handler serves every page. All per-session state lives in the registry,
// the session store and the wizard table.
type Handler struct {
	Deps
	wizards *wizards
}

func NewHandler(d Deps) *Handler {
	return &Handler{Deps: d, wizards: newWizards()}
}

// ---------- registration wizards ----------

type wizards struct {
	mu    sync.Mutex
	bySID map[string]*wizard.Wizard
}

func newWizards() *wizards {
	return &wizards{bySID: make(map[string]*wizard.Wizard)}
}

// get returns the session's wizard, creating it from the signup draft.
func (ws *wizards) get(ctx context.Context, store session.Store, sid string) *wizard.Wizard {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if w, ok := ws.bySID[sid]; ok {
		return w
	}

	var draft *session.Draft
	d, ok, err := store.TakeDraft(ctx, sid)
	switch {
	case err != nil:
		logger.FromCtx(ctx).Warn("registration draft unavailable", zap.Error(err))
	case ok:
		draft = &d
	}
	w := wizard.NewRegistration(draft)
	ws.bySID[sid] = w
	return w
}

func (ws *wizards) drop(sid string) {
	ws.mu.Lock()
	delete(ws.bySID, sid)
	ws.mu.Unlock()
}

// ---------- request helpers ----------

func sessionID(r *http.Request) string {
	sid, _ := utils.GetSessionIDFromContext(r.Context())
	return sid
}

// currentUser reads the signed-in user from the session store.
func (h *Handler) currentUser(r *http.Request) (model.User, bool) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		return model.User{}, false
	}
	u, err := h.Sessions.User(r.Context(), sessionID(r))
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			logger.FromCtx(r.Context()).Warn("session user lookup failed", zap.Error(err))
		}
		return model.User{}, false
	}
	return u, true
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// backTo returns the same-site referring page, or fallback.
func backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// formFile returns the uploaded file, or nil when none was chosen.
func formFile(r *http.Request, name string) (*media.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	f, hdr, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &media.File{Name: hdr.Filename, Data: data}, nil
}

func formTrim(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// ---------- rendering ----------

// body concatenates fragments and keeps the first error.
type body struct {
	b   strings.Builder
	err error
}

func (b *body) add(h template.HTML, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = err
		return
	}
	b.b.WriteString(string(h))
}

func (b *body) html() (template.HTML, error) {
	return template.HTML(b.b.String()), b.err
}

// page writes the layout with the session's visible notification.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, p render.Page) {
	p.Banner = render.NewBanner(h.Notices.Current(sessionID(r)))
	if p.User == "" {
		p.User = utils.GetUserNameFromContext(r.Context())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Renderer.Page(w, p); err != nil {
		h.serverError(w, r, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromCtx(r.Context()).Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// ---------- access ----------

func denyMessage(role string) string {
	article := "a"
	if strings.IndexAny(role[:1], "aeiou") == 0 {
		article = "an"
	}
	return "Access denied. Please login as " + article + " " + role + "."
}

// deny is the RequireRole fallback for the given dashboard.
func (h *Handler) deny(role string) http.HandlerFunc {
	msg := denyMessage(role)
	return func(w http.ResponseWriter, r *http.Request) {
		h.Notices.Error(sessionID(r), msg)
		redirect(w, r, "/login")
	}
}
