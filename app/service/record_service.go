package service

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"fiber/dvp/app/model"
	"fiber/dvp/app/repo"
	"fiber/dvp/helper"
)

// RecordService serves credential records with per-field gating applied from
// the visibility resolver. Institute users also manage the records here.
type RecordService struct {
	consent *ConsentService
	records repo.StudentRecordRepository
}

func NewRecordService(consent *ConsentService, records repo.StudentRecordRepository) *RecordService {
	return &RecordService{consent: consent, records: records}
}

// GET /api/v1/records/:enrollmentNo
func (s *RecordService) Get(c *fiber.Ctx) error {
	enrlNo := c.Params("enrollmentNo")
	viewer := viewerFromCtx(c)

	visibility, err := s.consent.ResolveVisibility(c.Context(), viewer, enrlNo)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	record, err := s.records.FindByEnrollmentNo(c.Context(), enrlNo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse{Success: false, Message: "Student record not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	return c.JSON(model.SuccessResponse[*model.StudentRecordView]{Success: true, Data: gateRecord(record, visibility)})
}

// GET /api/v1/records/:enrollmentNo/visibility
func (s *RecordService) GetVisibility(c *fiber.Ctx) error {
	visibility, err := s.consent.ResolveVisibility(c.Context(), viewerFromCtx(c), c.Params("enrollmentNo"))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	return c.JSON(model.SuccessResponse[*model.VisibilityResponse]{Success: true, Data: visibility})
}

// POST /api/v1/records and PUT /api/v1/records/:enrollmentNo
func (s *RecordService) Upsert(c *fiber.Ctx) error {
	var req model.UpsertStudentRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Invalid input"})
	}
	if enrlNo := c.Params("enrollmentNo"); enrlNo != "" {
		req.EnrollmentNo = enrlNo
	}
	if err := helper.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: helper.FormatValidationErrors(err)})
	}

	record := &model.StudentRecord{
		EnrollmentNo:   req.EnrollmentNo,
		Name:           req.Name,
		Degree:         req.Degree,
		University:     req.University,
		GraduationYear: req.GraduationYear,
		Contact:        req.Contact,
		Personal:       req.Personal,
		Academic:       req.Academic,
		Subjects:       req.Subjects,
		Documents:      req.Documents,
	}

	stored, err := s.records.Upsert(c.Context(), record)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(model.SuccessResponse[*model.StudentRecord]{Success: true, Data: stored})
}

// GET /api/v1/records
func (s *RecordService) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	search := c.Query("search", "")

	records, total, err := s.records.FindAll(c.Context(), page, limit, search)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	return c.JSON(model.SuccessResponse[model.PaginationData[model.StudentRecord]]{
		Success: true,
		Data: model.PaginationData[model.StudentRecord]{
			Items: records,
			Meta: model.MetaInfo{
				Page:   page,
				Limit:  limit,
				Total:  total,
				Pages:  int(math.Ceil(float64(total) / float64(limit))),
				Search: search,
			},
		},
	})
}

// gateRecord projects a record down to what the visibility set allows. The
// public block is always kept; each private block appears only when its
// catalog field was resolved visible.
func gateRecord(record *model.StudentRecord, visibility *model.VisibilityResponse) *model.StudentRecordView {
	view := &model.StudentRecordView{
		EnrollmentNo:   record.EnrollmentNo,
		Name:           record.Name,
		Degree:         record.Degree,
		University:     record.University,
		GraduationYear: record.GraduationYear,
		VisibleFields:  visibility.VisibleFields,
		RequestStatus:  visibility.RequestStatus,
	}

	for _, field := range visibility.VisibleFields {
		switch field {
		case model.FieldContactInfo:
			contact := record.Contact
			view.Contact = &contact
		case model.FieldPersonalDetails:
			personal := record.Personal
			view.Personal = &personal
		case model.FieldAcademicSummary:
			academic := record.Academic
			view.Academic = &academic
		case model.FieldSubjectScores:
			view.Subjects = record.Subjects
		}
	}
	return view
}
