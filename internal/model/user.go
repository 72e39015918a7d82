package model

import (
	"encoding/json"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Normalize maps the "farmer" alias onto seller.
func (r Role) Normalize() Role {
	if strings.EqualFold(string(r), "farmer") {
		return RoleSeller
	}
	return Role(strings.ToLower(string(r)))
}

type Address struct {
	Village  string `json:"village,omitempty"`
	District string `json:"district,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

type FarmerDetails struct {
	FarmName          string   `json:"farmName,omitempty"`
	LandSize          string   `json:"landSize,omitempty"`
	LandType          string   `json:"landType,omitempty"`
	SoilType          string   `json:"soilType,omitempty"`
	FarmingExperience string   `json:"farmingExperience,omitempty"`
	AverageYield      string   `json:"averageYield,omitempty"`
	OrganicCertified  bool     `json:"organicCertified"`
	ProfilePhotoURL   string   `json:"profilePhotoUrl,omitempty"`
	AadharCardURL     string   `json:"aadharCardUrl,omitempty"`
	LandDocumentsURL  string   `json:"landDocumentsUrl,omitempty"`
	BankPassbookURL   string   `json:"bankPassbookUrl,omitempty"`
	PrimaryCrops      []string `json:"primaryCrops,omitempty"`
	SecondaryCrops    []string `json:"secondaryCrops,omitempty"`
	Village           string   `json:"village,omitempty"`
}

type User struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone,omitempty"`
	Role          Role           `json:"role"`
	IsVerified    bool           `json:"isVerified"`
	Address       *Address       `json:"address,omitempty"`
	FarmerDetails *FarmerDetails `json:"farmerDetails,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// UnmarshalJSON accepts both "_id" and "id"; the login endpoint uses the latter.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		AltID string `json:"id"`
	}{plain: (*plain)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.AltID
	}
	u.Role = u.Role.Normalize()
	return nil
}

func (u User) IsFarmer() bool {
	return u.Role == RoleSeller
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DocumentsComplete reports whether the identity and land documents were uploaded.
func (u User) DocumentsComplete() bool {
	return u.FarmerDetails != nil &&
		u.FarmerDetails.AadharCardURL != "" &&
		u.FarmerDetails.LandDocumentsURL != ""
}

// Village prefers the address and falls back to the farm details.
func (u User) Village() string {
	if u.Address != nil && u.Address.Village != "" {
		return u.Address.Village
	}
	if u.FarmerDetails != nil {
		return u.FarmerDetails.Village
	}
	return ""
}

func (u User) FullAddress() string {
	a := Address{}
	if u.Address != nil {
		a = *u.Address
	}
	return a.Village + ", " + a.District + ", " + a.State + " - " + a.Pincode
}
