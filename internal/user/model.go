package user

import (
	"strings"

	"agrimarket/internal/model"
	"agrimarket/internal/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// HomePath is where a user lands after login.
func HomePath(role model.Role) string {
	switch role.Normalize() {
	case model.RoleSeller:
		return "/farmer"
	case model.RoleAdmin:
		return "/admin"
	default:
		return "/buyer"
	}
}

type SignupInput struct {
	Name        string
	Email       string
	Phone       string
	Password    string
	AcceptTerms bool
}

func (in SignupInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return &ValidationError{Field: "name", Message: "Please fill out the Full Name field."}
	case validate.Var(strings.TrimSpace(in.Email), "required,email") != nil:
		return &ValidationError{Field: "email", Message: "Please enter a valid email address."}
	case !utils.IsDigits(in.Phone, 10):
		return &ValidationError{Field: "phone", Message: "Please enter a valid 10-digit phone number."}
	case len(in.Password) < 6:
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters long."}
	case !in.AcceptTerms:
		return &ValidationError{Field: "terms", Message: "You must agree to the Terms and Conditions to sign up."}
	}
	return nil
}

type signupRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Phone    string     `json:"phone"`
	Role     model.Role `json:"role"`
}

type ProfileInput struct {
	Name    string
	Email   string
	Phone   string
	Address model.Address
}

func (in ProfileInput) Validate() error {
	if !utils.IsDigits(in.Phone, 10) {
		return &ValidationError{Field: "phone", Message: "Please enter a valid 10-digit phone number."}
	}
	return nil
}

type profileRequest struct {
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Address model.Address `json:"address"`
}

type verifyRequest struct {
	IsVerified bool `json:"isVerified"`
}
