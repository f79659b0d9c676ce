package main

import (
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gateway "github.com/medico-app/medico/apigateway"
)

// GetMainEngine wires every route of the service onto a fiber app.
func GetMainEngine() *fiber.App {
	// a registration can carry eight 10MB documents plus multipart framing,
	// so the body cap sits well above that; per-file size is checked in the
	// upload handler
	route := fiber.New(fiber.Config{BodyLimit: 96 << 20})
	route.Use(gateway.RequestID())
	route.Use(gateway.RequestLogger(logrusLogger, logSampling))
	route.Use(gateway.Instrumentation())
	route.Use(gateway.Cors(medicoConfig.Cors))

	route.Get("/", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{"ok": true})
	})
	route.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	route.Static("/uploads", medicoConfig.UploadDir)

	requireAdmin := gateway.RequireAdmin(medicoConfig)
	requirePartner := []fiber.Handler{auth.AuthMiddleware(), gateway.RequireRole(gateway.RolePartner)}
	requireMember := []fiber.Handler{auth.AuthMiddleware(), gateway.RequireRole(gateway.RoleMember)}

	api := route.Group("/api/partners")
	{
		// public
		api.Post("/register", partnerService.Register)
		api.Post("/login", partnerService.Login)
		api.Get("/", partnerService.ListPartners)

		// partner token
		api.Post("/verify", chain(requirePartner, partnerService.VerifyMembership)...)
		api.Post("/visit", chain(requirePartner, partnerService.RecordVisit)...)
		api.Get("/partner-stats", chain(requirePartner, partnerService.PartnerStats)...)
		api.Get("/partner-visits", chain(requirePartner, partnerService.PartnerVisits)...)

		// member token
		api.Get("/my-visits", chain(requireMember, partnerService.MyVisits)...)

		// admin console
		api.Get("/applications", requireAdmin, dashService.ListApplications)
		api.Post("/applications/:id/approve", requireAdmin, dashService.Approve)
		api.Post("/applications/:id/reject", requireAdmin, dashService.Reject)
		api.Get("/stats", requireAdmin, dashService.Stats)
		api.Get("/recent-members", requireAdmin, dashService.RecentMembers)
		api.Get("/recent-partners", requireAdmin, dashService.RecentPartners)
		api.Get("/users", requireAdmin, dashService.GetAllUsers)
		api.Get("/all-partners", requireAdmin, dashService.GetAllPartners)
		api.Delete("/users/:id", requireAdmin, dashService.DeleteUser)
		api.Delete("/:id", requireAdmin, dashService.DeletePartner)
	}

	return route
}

func chain(middleware []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	return append(append([]fiber.Handler{}, middleware...), handler)
}
