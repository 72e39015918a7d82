package web

import (
	"net/http"

	"agrimarket/internal/auth"
	"agrimarket/internal/logger"
	"agrimarket/internal/middleware"
	"agrimarket/internal/model"

	"github.com/go-chi/chi/v5"
)

type RouterOptions struct {
	Issuer       *auth.Issuer
	SecureCookie bool
	// Limiter is optional; nil disables rate limiting.
	Limiter        *middleware.RateLimiter
	InternalSecret string
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Session(opts.Issuer, h.Sessions, opts.SecureCookie))
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}

	r.Get("/healthz", h.Health)

	// Public
	r.Get("/", h.BrowsePage)
	r.Post("/wishlist/{id}", h.ToggleWishlist)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/signup", h.SignupPage)
	r.Post("/signup", h.Signup)
	r.Post("/logout", h.Logout)
	r.Post("/notice/dismiss", h.DismissNotice)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)

	r.Route("/buyer", func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleBuyer, h.deny("buyer")))
		r.Get("/", h.BuyerHome)
		r.Get("/{section}", h.BuyerSection)
		r.Get("/order/{id}", h.OrderForm)
		r.Post("/order/{id}", h.PlaceOrder)
		r.Post("/farmers/{id}/crops", h.ViewFarmerCrops)
		r.Post("/profile", h.BuyerProfile)
	})

	r.Route("/farmer", func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleSeller, h.deny("farmer")))
		r.Get("/", h.FarmerHome)
		r.Get("/{section}", h.FarmerSection)
		r.Post("/crops", h.AddCrop)
		r.Post("/crops/{id}/edit", h.UpdateCrop)
		r.Post("/crops/{id}/status", h.SetCropStatus)
		r.Post("/crops/{id}/delete", h.DeleteCrop)
		r.Post("/orders/{id}/status", h.UpdateOrderStatus)
		r.Post("/profile", h.FarmerProfile)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleAdmin, h.deny("admin")))
		r.Get("/", h.AdminHome)
		r.Get("/{section}", h.AdminSection)
		r.Get("/farmers/{id}", h.FarmerDetails)
		r.Post("/farmers/{id}/verify", h.VerifyFarmer)
		r.Post("/users/{id}/delete", h.DeleteUser)
		r.Post("/crops/{id}/approve", h.ApproveCrop)
		r.Post("/crops/{id}/delete", h.AdminDeleteCrop)
	})

	r.Route("/internal", func(r chi.Router) {
		r.Use(middleware.InternalOnly(opts.InternalSecret))
		r.Get("/metrics", h.Metrics)
		r.Get("/audit", h.AuditTrail)
	})

	return r
}
