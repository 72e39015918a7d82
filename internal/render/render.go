package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var files embed.FS

// Renderer projects view models to HTML. It holds no state besides the
// parsed templates and is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("agrimarket").ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew panics when the embedded templates do not parse.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Fragment executes one named template into a string usable as Page.Body.
func (r *Renderer) Fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Page writes the full layout around an already rendered body.
func (r *Renderer) Page(w io.Writer, p Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render layout: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// ---------- per-entity projections ----------

func (r *Renderer) Browse(b Browse) (template.HTML, error) {
	return r.Fragment("browse", b)
}

func (r *Renderer) CropCards(cards []CropCard) (template.HTML, error) {
	return r.Fragment("wishlist", cards)
}

func (r *Renderer) FarmerCrops(rows []CropRow) (template.HTML, error) {
	return r.Fragment("farmer_crops", rows)
}

func (r *Renderer) AdminCrops(rows []CropRow) (template.HTML, error) {
	return r.Fragment("admin_crops", rows)
}

func (r *Renderer) BuyerOrders(rows []OrderRow) (template.HTML, error) {
	return r.Fragment("buyer_orders", rows)
}

func (r *Renderer) FarmerOrders(rows []OrderRow) (template.HTML, error) {
	return r.Fragment("farmer_orders", rows)
}

func (r *Renderer) AdminOrders(rows []OrderRow) (template.HTML, error) {
	return r.Fragment("admin_orders", rows)
}

func (r *Renderer) OrderForm(f OrderForm) (template.HTML, error) {
	return r.Fragment("order_form", f)
}

func (r *Renderer) VerifiedFarmers(cards []FarmerCard) (template.HTML, error) {
	return r.Fragment("verified_farmers", cards)
}

func (r *Renderer) AdminFarmers(rows []FarmerRow) (template.HTML, error) {
	return r.Fragment("admin_farmers", rows)
}

func (r *Renderer) Users(rows []UserRow) (template.HTML, error) {
	return r.Fragment("admin_users", rows)
}

func (r *Renderer) Approvals(a Approvals) (template.HTML, error) {
	return r.Fragment("approvals", a)
}

func (r *Renderer) Activity(items []Activity) (template.HTML, error) {
	return r.Fragment("activity", items)
}

func (r *Renderer) Details(d Details) (template.HTML, error) {
	return r.Fragment("farmer_details", d)
}

func (r *Renderer) Stats(cards []StatCard) (template.HTML, error) {
	return r.Fragment("stats", cards)
}

func (r *Renderer) Overview(o Overview) (template.HTML, error) {
	return r.Fragment("overview", o)
}

func (r *Renderer) Banner(b *Banner) (template.HTML, error) {
	return r.Fragment("banner", b)
}

func (r *Renderer) Profile(p Profile) (template.HTML, error) {
	return r.Fragment("profile", p)
}

func (r *Renderer) Wizard(v WizardView) (template.HTML, error) {
	return r.Fragment("wizard", v)
}

func (r *Renderer) Login(f LoginForm) (template.HTML, error) {
	return r.Fragment("login", f)
}

func (r *Renderer) Signup(f SignupForm) (template.HTML, error) {
	return r.Fragment("signup", f)
}
