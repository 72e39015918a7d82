package render

import (
	"html/template"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"agrimarket/internal/listing"
	"agrimarket/internal/model"
	"agrimarket/internal/navigator"
	"agrimarket/internal/notify"
	"agrimarket/internal/order"
	"agrimarket/internal/stats"
	"agrimarket/internal/wizard"

	"github.com/shopspring/decimal"
)

const (
	UnknownFarmer      = "Unknown Farmer"
	NotAvailable       = "N/A"
	DefaultDescription = "Fresh farm produce, harvested with care."
	DetailsNotFound    = "Details not found"
)

// ---------- crops ----------

type CropCard struct {
	ID          string
	Name        string
	Category    string
	Price       string
	Quantity    int
	Farmer      string
	FarmerID    string
	Location    string
	Description string
	Quality     string
	Image       string
	Organic     bool
	Wished      bool
	// Orderable is false on the public browse page.
	Orderable bool
}

func NewCropCard(c model.Crop, wished, orderable bool) CropCard {
	card := CropCard{
		ID:          c.ID,
		Name:        c.Name,
		Category:    c.Category,
		Price:       Money(c.Price),
		Quantity:    c.Quantity,
		Farmer:      orDefault(c.FarmerDisplayName(), UnknownFarmer),
		FarmerID:    c.Farmer.ID,
		Location:    orDefault(c.Location, NotAvailable),
		Description: orDefault(strings.TrimSpace(c.Description), DefaultDescription),
		Quality:     QualityBadge(c.Quality),
		Image:       listing.ImageURL(c),
		Organic:     listing.IsOrganic(c),
		Wished:      wished,
		Orderable:   orderable,
	}
	return card
}

// QualityBadge capitalises the grade and defaults to Standard.
func QualityBadge(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return "Standard"
	}
	r, size := utf8.DecodeRuneInString(q)
	return string(unicode.ToUpper(r)) + strings.ToLower(q[size:])
}

// Grid is the crop card section of the browse and buyer pages.
type Grid struct {
	Loaded  bool
	Summary string
	Sort    string
	Pinned  string
	Cards   []CropCard
}

// NewGrid projects a listing view. wished reports wishlist membership.
func NewGrid(v listing.View, wished func(id string) bool, orderable bool) Grid {
	g := Grid{
		Loaded:  v.Loaded(),
		Summary: v.Summary(),
		Sort:    v.Sort.Label(),
	}
	for _, c := range v.Items {
		in := wished != nil && wished(c.ID)
		g.Cards = append(g.Cards, NewCropCard(c, in, orderable))
	}
	if v.Criteria.Pinned() {
		name := v.Criteria.FarmerName
		if name == "" && len(v.Items) > 0 {
			name = v.Items[0].FarmerDisplayName()
		}
		g.Pinned = orDefault(name, UnknownFarmer)
	}
	return g
}

type CropRow struct {
	ID       string
	Name     string
	Category string
	Farmer   string
	Price    string
	Quantity int
	Status   string
	Date     string
	// Toggle is the status a farmer may switch to, if any.
	Toggle model.CropStatus
}

func NewCropRow(c model.Crop) CropRow {
	row := CropRow{
		ID:       c.ID,
		Name:     c.Name,
		Category: c.Category,
		Farmer:   orDefault(c.FarmerDisplayName(), NotAvailable),
		Price:    Money(c.Price),
		Quantity: c.Quantity,
		Status:   StatusLabel(string(c.Status)),
		Date:     Date(c.CreatedAt),
	}
	switch c.Status {
	case model.CropAvailable:
		row.Toggle = model.CropSoldOut
	case model.CropSoldOut:
		row.Toggle = model.CropAvailable
	}
	return row
}

func NewCropRows(crops []model.Crop) []CropRow {
	out := make([]CropRow, 0, len(crops))
	for _, c := range crops {
		out = append(out, NewCropRow(c))
	}
	return out
}

// ---------- orders ----------

type OrderRow struct {
	ID        string
	ShortID   string
	Crop      string
	Buyer     string
	Farmer    string
	Quantity  int
	UnitPrice string
	Total     string
	Status    string
	StatusKey model.OrderStatus
	Date      string
	Address   string
	Actions   []order.Action
}

func NewOrderRow(o model.Order) OrderRow {
	return OrderRow{
		ID:        o.ID,
		ShortID:   o.ShortID(),
		Crop:      orDefault(o.CropName, orDefault(o.Crop.Name, NotAvailable)),
		Buyer:     orDefault(o.Buyer.Name, orDefault(o.BuyerName, NotAvailable)),
		Farmer:    orDefault(o.Farmer.Name, orDefault(o.FarmerName, UnknownFarmer)),
		Quantity:  o.Quantity,
		UnitPrice: Money(o.CropPrice),
		Total:     Money(o.TotalAmount),
		Status:    StatusLabel(string(o.Status)),
		StatusKey: o.Status,
		Date:      Date(o.CreatedAt),
		Address:   o.DeliveryAddress,
	}
}

// NewFarmerOrderRows attaches the transition buttons a farmer may use.
func NewFarmerOrderRows(orders []model.Order) []OrderRow {
	out := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		row := NewOrderRow(o)
		row.Actions = order.Actions(o.Status)
		out = append(out, row)
	}
	return out
}

func NewOrderRows(orders []model.Order) []OrderRow {
	out := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderRow(o))
	}
	return out
}

type Activity struct {
	ShortID string
	Crop    string
	Buyer   string
	Total   string
	Status  string
	Date    string
}

func NewActivity(orders []model.Order) []Activity {
	out := make([]Activity, 0, len(orders))
	for _, o := range orders {
		row := NewOrderRow(o)
		out = append(out, Activity{
			ShortID: row.ShortID,
			Crop:    row.Crop,
			Buyer:   row.Buyer,
			Total:   row.Total,
			Status:  row.Status,
			Date:    row.Date,
		})
	}
	return out
}

// ---------- users ----------

type FarmerCard struct {
	ID       string
	Name     string
	Phone    string
	Village  string
	FarmName string
	LandSize string
	Organic  bool
	Crops    string
}

func NewFarmerCard(u model.User) FarmerCard {
	card := FarmerCard{
		ID:      u.ID,
		Name:    u.Name,
		Phone:   orDefault(u.Phone, NotAvailable),
		Village: orDefault(u.Village(), NotAvailable),
	}
	if d := u.FarmerDetails; d != nil {
		card.FarmName = d.FarmName
		card.LandSize = d.LandSize
		card.Organic = d.OrganicCertified
		card.Crops = strings.Join(d.PrimaryCrops, ", ")
	}
	return card
}

type FarmerRow struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Village   string
	LandSize  string
	Verified  bool
	Documents bool
	Joined    string
}

func NewFarmerRow(u model.User) FarmerRow {
	row := FarmerRow{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     orDefault(u.Phone, NotAvailable),
		Village:   orDefault(u.Village(), NotAvailable),
		LandSize:  NotAvailable,
		Verified:  u.IsVerified,
		Documents: u.DocumentsComplete(),
		Joined:    Date(u.CreatedAt),
	}
	if u.FarmerDetails != nil && u.FarmerDetails.LandSize != "" {
		row.LandSize = u.FarmerDetails.LandSize
	}
	return row
}

type UserRow struct {
	ID        string
	Name      string
	Email     string
	Role      string
	Joined    string
	Deletable bool
}

func NewUserRow(u model.User) UserRow {
	return UserRow{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      StatusLabel(string(u.Role)),
		Joined:    Date(u.CreatedAt),
		Deletable: !u.IsAdmin(),
	}
}

// Details is the admin's farmer details modal.
type Details struct {
	Found   bool
	Name    string
	Email   string
	Phone   string
	Address string
	Farm    model.FarmerDetails
	// Documents maps a label to its uploaded URL; missing entries are omitted.
	Documents []Link
}

type Link struct {
	Label string
	URL   string
}

func NewDetails(u model.User, found bool) Details {
	if !found {
		return Details{}
	}
	d := Details{
		Found:   true,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   orDefault(u.Phone, NotAvailable),
		Address: u.FullAddress(),
	}
	if fd := u.FarmerDetails; fd != nil {
		d.Farm = *fd
		for _, l := range []Link{
			{"Profile Photo", fd.ProfilePhotoURL},
			{"Aadhar Card", fd.AadharCardURL},
			{"Land Documents", fd.LandDocumentsURL},
			{"Bank Passbook", fd.BankPassbookURL},
		} {
			if l.URL != "" {
				d.Documents = append(d.Documents, l)
			}
		}
	}
	return d
}

type Approvals struct {
	Farmers []FarmerRow
	Crops   []CropRow
}

func (a Approvals) Empty() bool {
	return len(a.Farmers) == 0 && len(a.Crops) == 0
}

func NewApprovals(farmers []model.User, crops []model.Crop) Approvals {
	a := Approvals{Crops: NewCropRows(crops)}
	for _, u := range farmers {
		a.Farmers = append(a.Farmers, NewFarmerRow(u))
	}
	return a
}

// ---------- stats ----------

type StatCard struct {
	Label string
	Value string
}

func BuyerCards(s stats.Buyer) []StatCard {
	return []StatCard{
		{"Total Orders", itoa(s.Total)},
		{"Completed", itoa(s.Completed)},
		{"Pending", itoa(s.Pending)},
		{"Total Spent", "₹" + s.Spent.StringFixed(2)},
	}
}

func FarmerCards(s stats.Farmer) []StatCard {
	return []StatCard{
		{"Total Crops", itoa(s.TotalCrops)},
		{"Total Orders", itoa(s.TotalOrders)},
		{"Total Earnings", "₹" + s.Earnings.Round(0).String()},
		{"Pending Orders", itoa(s.Pending)},
	}
}

func AdminCards(s stats.Admin) []StatCard {
	return []StatCard{
		{"Total Users", itoa(s.TotalUsers)},
		{"Farmers", itoa(s.Farmers)},
		{"Buyers", itoa(s.Buyers)},
		{"Total Crops", itoa(s.TotalCrops)},
		{"Pending Crops", itoa(s.PendingCrops)},
		{"Total Orders", itoa(s.TotalOrders)},
		{"Revenue", Money(s.Revenue)},
	}
}

// ---------- wizard ----------

type WizardField struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Checked  bool
	Attached string
	Required bool
	Options  []WizardOption
}

type WizardOption struct {
	Value   string
	Label   string
	Checked bool
}

type WizardView struct {
	Step      int
	Total     int
	Percent   int
	Title     string
	Fields    []WizardField
	CanPrev   bool
	NextLabel string
	Disabled  bool
}

// NewWizardView never exposes the password back to the page.
func NewWizardView(w *wizard.Wizard) WizardView {
	step := w.Current()
	values := w.Values()
	v := WizardView{
		Step:      w.Step(),
		Total:     w.Total(),
		Percent:   w.Percent(),
		Title:     step.Title,
		CanPrev:   w.CanPrev(),
		NextLabel: w.NextLabel(),
		Disabled:  w.State() != wizard.Editing,
	}
	for _, f := range step.Fields {
		wf := WizardField{Name: f.Name, Label: f.Label, Required: f.Required}
		switch f.Kind {
		case wizard.Checkbox:
			wf.Type = "checkbox"
			wf.Checked = values.Checked[f.Name]
		case wizard.List:
			wf.Type = "list"
			picked := make(map[string]bool)
			for _, item := range values.Lists[f.Name] {
				picked[item] = true
			}
			for _, o := range f.Options {
				wf.Options = append(wf.Options, WizardOption{Value: o.Value, Label: o.Label, Checked: picked[o.Value]})
			}
		case wizard.File:
			wf.Type = "file"
			if values.HasFile(f.Name) {
				wf.Attached = values.Files[f.Name].Name
			}
		case wizard.Email:
			wf.Type = "email"
			wf.Value = values.Get(f.Name)
		default:
			wf.Type = "text"
			if f.Name == "password" {
				wf.Type = "password"
			} else {
				wf.Value = values.Get(f.Name)
			}
		}
		v.Fields = append(v.Fields, wf)
	}
	return v
}

// ---------- chrome ----------

type Banner struct {
	Kind    string
	Message string
}

func NewBanner(n notify.Notification, ok bool) *Banner {
	if !ok {
		return nil
	}
	return &Banner{Kind: string(n.Kind), Message: n.Message}
}

// Page is the layout shared by every screen.
type Page struct {
	Title   string
	User    string
	Nav     []navigator.Control
	NavBase string
	Banner  *Banner
	Body    template.HTML
}

// Browse is the filter bar plus the crop grid.
type Browse struct {
	Action     string
	Criteria   listing.Criteria
	Sort       listing.SortKey
	Categories []string
	Locations  []string
	Grid       Grid
}

type Profile struct {
	Action  string
	Name    string
	Email   string
	Phone   string
	Address model.Address
}

func NewProfile(action string, u model.User) Profile {
	p := Profile{Action: action, Name: u.Name, Email: u.Email, Phone: u.Phone}
	if u.Address != nil {
		p.Address = *u.Address
	}
	return p
}

// Overview is the admin landing section.
type Overview struct {
	Stats     []StatCard
	Approvals Approvals
	Activity  []Activity
}

// ---------- formatting ----------

// Money renders an amount in rupees without trailing zeros.
func Money(d decimal.Decimal) string {
	return "₹" + d.String()
}

func Date(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format("02/01/2006")
}

// StatusLabel turns "sold_out" into "Sold Out".
func StatusLabel(s string) string {
	if s == "" {
		return NotAvailable
	}
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// ---------- forms ----------

type OrderForm struct {
	Crop         CropCard
	Quantity     string
	Address      string
	Instructions string
}

type LoginForm struct {
	Email string
}

type SignupForm struct {
	Name  string
	Email string
	Phone string
}
