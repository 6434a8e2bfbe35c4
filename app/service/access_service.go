package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"fiber/dvp/app/model"
	"fiber/dvp/app/repo"
	"fiber/dvp/helper"
)

// AccessService exposes the consent engine over HTTP.
type AccessService struct {
	consent *ConsentService
	records repo.StudentRecordRepository
}

func NewAccessService(consent *ConsentService, records repo.StudentRecordRepository) *AccessService {
	return &AccessService{consent: consent, records: records}
}

func viewerFromCtx(c *fiber.Ctx) model.Identity {
	claims := c.Locals("user").(*model.JWTClaims)
	return claims.Identity()
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// POST /api/v1/requests
func (s *AccessService) Create(c *fiber.Ctx) error {
	var req model.CreateAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Invalid input"})
	}
	if err := helper.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: helper.FormatValidationErrors(err)})
	}

	record, err := s.records.FindByEnrollmentNo(c.Context(), req.StudentEnrlNo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse{Success: false, Message: "Student record not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	created, err := s.consent.CreateRequest(c.Context(), viewerFromCtx(c), req, record.Name)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(model.SuccessResponse[*model.AccessRequest]{Success: true, Data: created})
}

// GET /api/v1/requests
func (s *AccessService) List(c *fiber.Ctx) error {
	requests, err := s.consent.ListForViewer(c.Context(), viewerFromCtx(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	return c.JSON(model.SuccessResponse[[]model.AccessRequest]{Success: true, Data: requests})
}

// GET /api/v1/requests/:id
func (s *AccessService) Get(c *fiber.Ctx) error {
	request, err := s.consent.Get(c.Context(), viewerFromCtx(c), c.Params("id"))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	return c.JSON(model.SuccessResponse[*model.AccessRequest]{Success: true, Data: request})
}

// POST /api/v1/requests/:id/approve
func (s *AccessService) Approve(c *fiber.Ctx) error {
	var req model.ApproveAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Invalid input"})
	}

	updated, err := s.consent.Approve(c.Context(), viewerFromCtx(c), c.Params("id"), req.SelectedFields)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	return c.JSON(model.SuccessResponse[*model.AccessRequest]{Success: true, Message: "Request approved", Data: updated})
}

// POST /api/v1/requests/:id/reject
func (s *AccessService) Reject(c *fiber.Ctx) error {
	updated, err := s.consent.Reject(c.Context(), viewerFromCtx(c), c.Params("id"))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	return c.JSON(model.SuccessResponse[*model.AccessRequest]{Success: true, Message: "Request rejected", Data: updated})
}

// PUT /api/v1/requests/:id/fields
func (s *AccessService) AmendFields(c *fiber.Ctx) error {
	var req model.AmendFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Invalid input"})
	}

	updated, err := s.consent.AmendApprovedFields(c.Context(), viewerFromCtx(c), c.Params("id"), req.Fields)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	if updated == nil {
		// Empty selection shrank the grant to nothing; the request is gone.
		return c.JSON(model.SuccessMessageResponse{Success: true, Message: "Request revoked"})
	}
	return c.JSON(model.SuccessResponse[*model.AccessRequest]{Success: true, Message: "Approved fields updated", Data: updated})
}

// DELETE /api/v1/requests/:id
func (s *AccessService) Revoke(c *fiber.Ctx) error {
	if err := s.consent.Revoke(c.Context(), viewerFromCtx(c), c.Params("id")); err != nil {
		return c.Status(errorStatus(err)).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	return c.JSON(model.SuccessMessageResponse{Success: true, Message: "Request revoked"})
}
