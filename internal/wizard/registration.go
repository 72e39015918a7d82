package wizard

import (
	"context"
	"strings"
	"time"

	"agrimarket/internal/events"
	"agrimarket/internal/gateway"
	"agrimarket/internal/logger"
	"agrimarket/internal/media"
	"agrimarket/internal/model"
	"agrimarket/internal/session"

	"go.uber.org/zap"
)

const RegisteredMessage = "Registration Successful! Redirecting..."

// CropOptions are the crops a farmer can list as grown.
var CropOptions = []Option{
	{Value: "rice", Label: "Rice"},
	{Value: "wheat", Label: "Wheat"},
	{Value: "maize", Label: "Maize"},
	{Value: "pulses", Label: "Pulses"},
	{Value: "cotton", Label: "Cotton"},
	{Value: "sugarcane", Label: "Sugarcane"},
	{Value: "vegetables", Label: "Vegetables"},
	{Value: "fruits", Label: "Fruits"},
}

// RegistrationSteps is the four-step farmer registration form.
func RegistrationSteps() []Step {
	return []Step{
		{
			Title: "Personal Information",
			Fields: []Field{
				{Name: "fullName", Label: "Full Name", Required: true},
				{Name: "email", Label: "Email Address", Kind: Email, Required: true,
					Rules: []Rule{ValidEmail("Please enter a valid email address.")}},
				{Name: "phone", Label: "Phone Number", Required: true,
					Rules: []Rule{Digits(10, "Phone number must be exactly 10 digits.")}},
				{Name: "password", Label: "Password", Required: true,
					Rules: []Rule{MinLength(6, "Password must be at least 6 characters long.")}},
				{Name: "dateOfBirth", Label: "Date of Birth", Required: true},
				{Name: "aadharNumber", Label: "Aadhar Number", Required: true,
					Rules: []Rule{Digits(12, "Aadhar Number must be exactly 12 digits.")}},
			},
		},
		{
			Title: "Address",
			Fields: []Field{
				{Name: "village", Label: "Village", Required: true},
				{Name: "district", Label: "District", Required: true},
				{Name: "state", Label: "State", Required: true},
				{Name: "pincode", Label: "Pincode", Required: true},
			},
		},
		{
			Title: "Farm Details",
			Fields: []Field{
				{Name: "farmName", Label: "Farm Name", Required: true},
				{Name: "landSize", Label: "Land Size (acres)", Required: true},
				{Name: "landType", Label: "Land Type", Required: true},
				{Name: "soilType", Label: "Soil Type", Required: true},
				{Name: "farmingExperience", Label: "Farming Experience (years)", Required: true},
				{Name: "averageYield", Label: "Average Yield"},
				{Name: "organicCertified", Label: "Organic Certified", Kind: Checkbox},
				{Name: "primaryCrops", Label: "Primary Crops", Kind: List, Options: CropOptions},
				{Name: "secondaryCrops", Label: "Secondary Crops", Kind: List, Options: CropOptions},
			},
		},
		{
			Title: "Documents",
			Fields: []Field{
				{Name: "profilePhoto", Label: "Profile Photo", Kind: File, Required: true},
				{Name: "aadharCard", Label: "Aadhar Card", Kind: File, Required: true},
				{Name: "landDocuments", Label: "Land Documents", Kind: File, Required: true},
				{Name: "bankPassbook", Label: "Bank Passbook", Kind: File, Required: true},
			},
		},
	}
}

// NewRegistration returns a fresh registration wizard, pre-filled from draft
// when one was left by the quick signup form.
func NewRegistration(draft *session.Draft) *Wizard {
	w, _ := New(RegistrationSteps()...)
	if draft != nil {
		if draft.Name != "" {
			w.Set("fullName", draft.Name)
		}
		if draft.Email != "" {
			w.Set("email", draft.Email)
		}
		if draft.Phone != "" {
			w.Set("phone", draft.Phone)
		}
	}
	return w
}

// documents maps file fields to the farmerDetails keys their URLs go to.
var documents = []struct{ field, key string }{
	{"profilePhoto", "profilePhotoUrl"},
	{"aadharCard", "aadharCardUrl"},
	{"landDocuments", "landDocumentsUrl"},
	{"bankPassbook", "bankPassbookUrl"},
}

type SignupGateway interface {
	Signup(ctx context.Context, payload any) (*gateway.AuthResponse, error)
}

// Registrar uploads the documents and creates the seller account.
type Registrar struct {
	gw        SignupGateway
	uploader  media.Uploader
	publisher events.Publisher
}

func NewRegistrar(gw SignupGateway, uploader media.Uploader, publisher events.Publisher) *Registrar {
	return &Registrar{gw: gw, uploader: uploader, publisher: publisher}
}

type registrationRequest struct {
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Password      string              `json:"password"`
	Phone         string              `json:"phone"`
	Role          model.Role          `json:"role"`
	Address       model.Address       `json:"address"`
	FarmerDetails model.FarmerDetails `json:"farmerDetails"`
}

// Submit is a SubmitFunc. Any upload failure returns before the backend is
// contacted.
func (r *Registrar) Submit(ctx context.Context, v Values) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "wizard"),
		zap.String("method", "Submit"),
	)
	start := time.Now()

	urls := make(map[string]string, len(documents))
	for _, d := range documents {
		f, ok := v.Files[d.field]
		if !ok {
			continue
		}
		url, err := r.uploader.Upload(ctx, f)
		if err != nil {
			log.Error("document upload failed", zap.String("field", d.field), zap.Error(err))
			return err
		}
		urls[d.key] = url
	}

	req := registrationRequest{
		Name:     strings.TrimSpace(v.Get("fullName")),
		Email:    strings.TrimSpace(v.Get("email")),
		Password: v.Get("password"),
		Phone:    v.Get("phone"),
		Role:     model.RoleSeller,
		Address: model.Address{
			Village:  v.Get("village"),
			District: v.Get("district"),
			State:    v.Get("state"),
			Pincode:  v.Get("pincode"),
		},
		FarmerDetails: model.FarmerDetails{
			FarmName:          v.Get("farmName"),
			LandSize:          v.Get("landSize"),
			LandType:          v.Get("landType"),
			SoilType:          v.Get("soilType"),
			FarmingExperience: v.Get("farmingExperience"),
			AverageYield:      v.Get("averageYield"),
			OrganicCertified:  v.Checked["organicCertified"],
			ProfilePhotoURL:   urls["profilePhotoUrl"],
			AadharCardURL:     urls["aadharCardUrl"],
			LandDocumentsURL:  urls["landDocumentsUrl"],
			BankPassbookURL:   urls["bankPassbookUrl"],
			PrimaryCrops:      v.Lists["primaryCrops"],
			SecondaryCrops:    v.Lists["secondaryCrops"],
		},
	}

	res, err := r.gw.Signup(ctx, req)
	if err != nil {
		log.Error("seller signup failed", zap.Error(err))
		return err
	}

	var id string
	if res != nil && res.User != nil {
		id = res.User.ID
	}
	events.PublishQuietly(ctx, r.publisher, events.FarmerRegistered, map[string]string{
		"userId": id,
		"email":  req.Email,
	})
	log.Info("Submit success", zap.Duration("duration", time.Since(start)))
	return nil
}
