package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recognition-service/internal/api/http/handlers"
	"github.com/spec-kit/recognition-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Campaigns      *handlers.CampaignsHandler
	Votes          *handlers.VotesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)
	authGroup.Post("/staff/login", cfg.Auth.StaffLogin)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.Me)

	// Static staff paths are registered before /:id so fiber does not swallow
	// them as ID params.
	staffGroup := api.Group("/staff", cfg.AuthMiddleware.Handle)
	staffGroup.Get("/voting", auth.RequireStaff(), cfg.Staff.Candidates)
	staffGroup.Get("/stats/overview", auth.RequireAdmin(), cfg.Staff.Overview)
	staffGroup.Get("/department/:department", auth.RequireAnyRole(), cfg.Staff.ByDepartment)
	staffGroup.Get("/", auth.RequireAdmin(), cfg.Staff.List)
	staffGroup.Post("/", auth.RequireAdmin(), cfg.Staff.Create)
	staffGroup.Get("/:id", auth.RequireAnyRole(), cfg.Staff.Get)
	staffGroup.Put("/:id", auth.RequireAdmin(), cfg.Staff.Update)
	staffGroup.Delete("/:id", auth.RequireAdmin(), cfg.Staff.Delete)
	staffGroup.Post("/:id/reset-pin", auth.RequireAdmin(), cfg.Staff.ResetPIN)

	campaignGroup := api.Group("/campaigns", cfg.AuthMiddleware.Handle)
	campaignGroup.Get("/active", auth.RequireAnyRole(), cfg.Campaigns.ListVotable)
	campaignGroup.Get("/", auth.RequireAnyRole(), cfg.Campaigns.List)
	campaignGroup.Post("/", auth.RequireAdmin(), cfg.Campaigns.Create)
	campaignGroup.Get("/:id", auth.RequireAnyRole(), cfg.Campaigns.Get)
	campaignGroup.Put("/:id", auth.RequireAdmin(), cfg.Campaigns.Update)
	campaignGroup.Delete("/:id", auth.RequireAdmin(), cfg.Campaigns.Delete)
	campaignGroup.Post("/:id/publish", auth.RequireAdmin(), cfg.Campaigns.Publish)
	campaignGroup.Get("/:id/stats", auth.RequireAdmin(), cfg.Campaigns.Stats)
	campaignGroup.Get("/:id/results", auth.RequireAdmin(), cfg.Campaigns.Results)

	voteGroup := api.Group("/votes", cfg.AuthMiddleware.Handle)
	voteGroup.Post("/", auth.RequireStaff(), cfg.Votes.Cast)
	voteGroup.Put("/:id", auth.RequireStaff(), cfg.Votes.Amend)
	voteGroup.Get("/my-vote/:campaignId", auth.RequireStaff(), cfg.Votes.MyVote)
	voteGroup.Get("/results/:campaignId", auth.RequireAnyRole(), cfg.Votes.Results)
	voteGroup.Get("/stats/:campaignId", auth.RequireAnyRole(), cfg.Votes.Stats)
	voteGroup.Get("/campaign/:campaignId", auth.RequireAdmin(), cfg.Votes.ListByCampaign)
}
