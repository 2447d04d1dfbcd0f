package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"notaryflow/internal/http/middleware"
	"notaryflow/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; every lifecycle rule lives behind the service interfaces.
//
// Identity is external: the Actor middleware only verifies the bearer token
// and extracts subject and role. Back-office operations additionally require
// the admin role.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.Lifecycle, disputes service.Disputes, jwtSecret string) {
	// Health endpoints stay unauthenticated for orchestrators.
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	actor := middleware.Actor(jwtSecret)
	admin := middleware.RequireAdmin()

	requests := app.Group("/requests", actor)
	requests.Post("/", SubmitRequest(svc))
	requests.Get("/", ListRequests(svc))
	requests.Get("/:id", GetRequest(svc))
	requests.Get("/:id/ledger", GetLedger(svc))
	requests.Get("/:id/audit", GetAuditTrail(svc))
	requests.Post("/:id/payments", RecordPayment(svc))
	requests.Post("/:id/disputes", OpenDispute(disputes))

	requests.Post("/:id/estimate", admin, EstimateCost(svc))
	requests.Post("/:id/complete", admin, CompleteRequest(svc))
	requests.Post("/:id/reject", admin, AdminReject(svc))

	cases := app.Group("/disputes", actor, admin)
	cases.Post("/:id/approve", AdminApprove(disputes))
	cases.Post("/:id/disagree", AdminDisagree(disputes))
}
