package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"notaryflow/internal/http/middleware"
	"notaryflow/internal/model"
	"notaryflow/internal/service"
)

var validate = validator.New()

// submitForm is the multipart form accompanying a new request. The scanned
// document travels in the "file" field.
type submitForm struct {
	ServiceCode string `form:"service_code" validate:"required"`
}

type estimateBody struct {
	AmountCents int64 `json:"amount_cents" validate:"required,gt=0"`
}

type paymentBody struct {
	AmountCents    int64  `json:"amount_cents" validate:"required,gt=0"`
	Kind           string `json:"kind" validate:"required,oneof=partial full refund_adjustment"`
	ExternalRef    string `json:"external_ref"`
	IdempotencyKey string `json:"idempotency_key"`
}

type rejectBody struct {
	Reason string `json:"reason" validate:"required"`
}

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if err := validate.Struct(dst); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}
	return nil
}

// parseID validates the :id path parameter.
func parseID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return id, nil
}

// authorizeOwner limits per-document reads to the owner or an admin, the
// same scoping ListRequests applies.
func authorizeOwner(c *fiber.Ctx, ownerID string) error {
	if role, _ := c.Locals(middleware.ActorRoleLocalKey).(string); role == middleware.RoleAdmin {
		return nil
	}
	if middleware.ActorID(c) != ownerID {
		return writeServiceError(c, service.ErrNotOwner)
	}
	return nil
}

// HealthCheck godoc
// @Summary Health check
// @Description Checks database connectivity.
// @Tags system
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe without dependency checks.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// SubmitRequest godoc
// @Summary Submit a document request
// @Description Creates a new request in pending. The submitter must be KYC approved.
// @Tags requests
// @Accept multipart/form-data
// @Param service_code formData string true "Catalog service code"
// @Param file formData file false "Scanned document"
// @Success 201 {object} model.DocumentRequest
// @Router /requests [post]
func SubmitRequest(svc service.Lifecycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form submitForm
		if err := c.BodyParser(&form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := validate.Struct(&form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		}

		in := service.SubmitInput{
			OwnerID:     middleware.ActorID(c),
			ServiceCode: form.ServiceCode,
		}

		// The attachment is optional; when present it is stored after the
		// request row commits.
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			in.Attachment = &service.Attachment{
				Filename:    fh.Filename,
				ContentType: ct,
				Size:        fh.Size,
				Content:     f,
			}
		}

		doc, err := svc.Submit(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListRequests godoc
// @Summary List document requests
// @Tags requests
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Param owner_id query string false "Owner filter (admin only)"
// @Success 200 {object} service.RequestListResult
// @Router /requests [get]
func ListRequests(svc service.Lifecycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		// Regular users only see their own requests; admins may filter by
		// any owner or list everything.
		owner := middleware.ActorID(c)
		if role, _ := c.Locals(middleware.ActorRoleLocalKey).(string); role == middleware.RoleAdmin {
			owner = c.Query("owner_id")
		}

		res, err := svc.List(c.UserContext(), owner, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetRequest godoc
// @Summary Get a document request by ID
// @Tags requests
// @Param id path string true "Request ID"
// @Success 200 {object} model.DocumentRequest
// @Router /requests/{id} [get]
func GetRequest(svc service.Lifecycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := authorizeOwner(c, doc.OwnerID); err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

// EstimateCost godoc
// @Summary Set the cost estimate
// @Description Sets the cost and moves the request from pending to cost_estimated.
// @Tags requests
// @Param id path string true "Request ID"
// @Param body body estimateBody true "Estimate"
// @Success 200 {object} model.DocumentRequest
// @Router /requests/{id}/estimate [post]
func EstimateCost(svc service.Lifecycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var body estimateBody
		if err := parseBody(c, &body); err != nil {
			return err
		}

		doc, err := svc.EstimateCost(c.UserContext(), id, service.EstimateInput{
			AmountCents: body.AmountCents,
			ActorID:     middleware.ActorID(c),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// RecordPayment godoc
// @Summary Record a payment
// @Description Appends a ledger entry and applies any resulting status transition.
// @Tags payments
// @Param id path string true "Request ID"
// @Param body body paymentBody true "Payment"
// @Success 200 {object} service.PaymentResult
// @Router /requests/{id}/payments [post]
func RecordPayment(svc service.Lifecycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var body paymentBody
		if err := parseBody(c, &body); err != nil {
			return err
		}

		res, err := svc.RecordPayment(c.UserContext(), id, service.PaymentInput{
			AmountCents:            body.AmountCents,
			Kind:                   model.PaymentKind(body.Kind),
			ExternalTransactionRef: body.ExternalRef,
			IdempotencyKey:         body.IdempotencyKey,
			ActorID:                middleware.ActorID(c),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CompleteRequest godoc
// @Summary Complete a request
// @Description Moves in_progress to completed once payment is sufficient.
// @Tags requests
// @Param id path string true "Request ID"
// @Success 200 {object} model.DocumentRequest
// @Router /requests/{id}/complete [post]
func CompleteRequest(svc service.Lifecycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		doc, err := svc.Complete(c.UserContext(), id, middleware.ActorID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// AdminReject godoc
// @Summary Reject a request
// @Description Moves any non-terminal request to admin_rejected.
// @Tags requests
// @Param id path string true "Request ID"
// @Param body body rejectBody true "Rejection reason"
// @Success 200 {object} model.DocumentRequest
// @Router /requests/{id}/reject [post]
func AdminReject(svc service.Lifecycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var body rejectBody
		if err := parseBody(c, &body); err != nil {
			return err
		}
		doc, err := svc.AdminReject(c.UserContext(), id, body.Reason, middleware.ActorID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// GetLedger godoc
// @Summary Get the payment ledger summary
// @Tags payments
// @Param id path string true "Request ID"
// @Success 200 {object} model.LedgerSummary
// @Router /requests/{id}/ledger [get]
func GetLedger(svc service.Lifecycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := authorizeOwner(c, doc.OwnerID); err != nil {
			return err
		}
		sum, err := svc.Summarize(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sum)
	}
}

// GetAuditTrail godoc
// @Summary Get the request's transition history
// @Tags requests
// @Param id path string true "Request ID"
// @Success 200 {array} model.AuditEvent
// @Router /requests/{id}/audit [get]
func GetAuditTrail(svc service.Lifecycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := authorizeOwner(c, doc.OwnerID); err != nil {
			return err
		}
		events, err := svc.AuditTrail(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(events)
	}
}
