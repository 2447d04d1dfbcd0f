package handler

import (
	"github.com/gofiber/fiber/v2"

	"notaryflow/internal/http/middleware"
	"notaryflow/internal/service"
)

type disputeBody struct {
	Reason string `json:"reason" validate:"required"`
}

type resolveBody struct {
	Reason string `json:"reason"`
}

// OpenDispute godoc
// @Summary Open a rejection dispute
// @Description The owner challenges a completed or in-progress outcome. The request moves to rejection_pending_admin.
// @Tags disputes
// @Param id path string true "Request ID"
// @Param body body disputeBody true "Dispute reason"
// @Success 201 {object} model.RejectionCase
// @Router /requests/{id}/disputes [post]
func OpenDispute(svc service.Disputes) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var body disputeBody
		if err := parseBody(c, &body); err != nil {
			return err
		}
		rc, err := svc.OpenDispute(c.UserContext(), id, middleware.ActorID(c), body.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rc)
	}
}

// AdminApprove godoc
// @Summary Approve a rejection case
// @Description The admin agrees with the user's challenge; the request becomes rejected (terminal).
// @Tags disputes
// @Param id path string true "Case ID"
// @Param body body resolveBody false "Resolution note"
// @Success 200 {object} model.RejectionCase
// @Router /disputes/{id}/approve [post]
func AdminApprove(svc service.Disputes) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var body resolveBody
		// Body is optional here; ignore parse failures on empty bodies.
		_ = c.BodyParser(&body)

		rc, err := svc.AdminApprove(c.UserContext(), id, middleware.ActorID(c), body.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rc)
	}
}

// AdminDisagree godoc
// @Summary Dismiss a rejection case
// @Description The admin disagrees with the challenge; the request returns to in_progress.
// @Tags disputes
// @Param id path string true "Case ID"
// @Success 200 {object} model.RejectionCase
// @Router /disputes/{id}/disagree [post]
func AdminDisagree(svc service.Disputes) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		rc, err := svc.AdminDisagree(c.UserContext(), id, middleware.ActorID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rc)
	}
}
