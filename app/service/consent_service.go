package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"fiber/dvp/app/model"
	"fiber/dvp/app/repo"
)

// ConsentService is the request lifecycle engine and visibility resolver.
// Every mutation is a single read-modify-write against one document; there is
// no optimistic locking, so two concurrent approvals of the same request are
// last-writer-wins.
type ConsentService struct {
	requests repo.AccessRequestRepository
}

func NewConsentService(requests repo.AccessRequestRepository) *ConsentService {
	return &ConsentService{requests: requests}
}

// CreateRequest files a new pending request by the employer for the student
// identified by enrollment number. Requested field names are mapped to
// canonical labels here, exactly once; an empty selection falls back to the
// Basic Verification sentinel. Duplicate requests for the same pair are
// allowed and accumulate.
func (s *ConsentService) CreateRequest(ctx context.Context, employer model.Identity, req model.CreateAccessRequest, studentName string) (*model.AccessRequest, error) {
	if employer.Role != model.RoleEmployer {
		return nil, ErrForbidden
	}
	if employer.UserID == uuid.Nil || employer.Email == "" {
		return nil, validationErr("employer identity is incomplete")
	}
	if req.StudentEnrlNo == "" {
		return nil, validationErr("student enrollment number is required")
	}
	if req.Purpose == "" {
		return nil, validationErr("purpose is required")
	}

	fields := model.NormalizeFields(req.RequestedFields)
	if len(fields) == 0 {
		fields = []string{model.FieldBasicVerification}
	}

	request := &model.AccessRequest{
		EmployerID:      employer.UserID.String(),
		EmployerName:    employer.Name,
		EmployerEmail:   employer.Email,
		StudentEnrlNo:   req.StudentEnrlNo,
		StudentName:     studentName,
		Purpose:         req.Purpose,
		RequestedFields: fields,
		ApprovedFields:  []string{},
		Status:          model.StatusPending,
	}

	created, err := s.requests.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("create access request: %w", err)
	}
	return created, nil
}

// Approve grants the selected fields and marks the request approved. The
// selection does not have to be a subset of the requested fields; the student
// may share more or different categories than asked for. An empty selection
// is refused, declining is what Reject is for.
func (s *ConsentService) Approve(ctx context.Context, viewer model.Identity, id string, selected []string) (*model.AccessRequest, error) {
	request, err := s.ownedRequest(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	fields := model.NormalizeFields(selected)
	if len(fields) == 0 {
		return nil, validationErr("select at least one field to approve")
	}

	updated, err := s.requests.UpdateStatus(ctx, request.ID.Hex(), model.StatusApproved, fields)
	if err != nil {
		return nil, fmt.Errorf("approve access request: %w", err)
	}
	return updated, nil
}

// Reject declines the request. Approved fields are left untouched (they are
// empty on a pending request).
func (s *ConsentService) Reject(ctx context.Context, viewer model.Identity, id string) (*model.AccessRequest, error) {
	request, err := s.ownedRequest(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.requests.UpdateStatus(ctx, request.ID.Hex(), model.StatusRejected, nil)
	if err != nil {
		return nil, fmt.Errorf("reject access request: %w", err)
	}
	return updated, nil
}

// AmendApprovedFields replaces the granted field set of an approved request.
// Shrinking the set to nothing revokes the request instead of leaving an
// approved request with no fields; in that case the returned request is nil.
func (s *ConsentService) AmendApprovedFields(ctx context.Context, viewer model.Identity, id string, newFields []string) (*model.AccessRequest, error) {
	request, err := s.ownedRequest(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if request.Status != model.StatusApproved {
		return nil, validationErr("only approved requests can be amended")
	}

	fields := model.NormalizeFields(newFields)
	if len(fields) == 0 {
		if err := s.requests.Delete(ctx, request.ID.Hex()); err != nil {
			return nil, fmt.Errorf("revoke access request: %w", err)
		}
		return nil, nil
	}

	updated, err := s.requests.UpdateApprovedFields(ctx, request.ID.Hex(), fields)
	if err != nil {
		return nil, fmt.Errorf("amend access request: %w", err)
	}
	return updated, nil
}

// Revoke deletes the request outright. Revoking an id that does not exist is
// a no-op success.
func (s *ConsentService) Revoke(ctx context.Context, viewer model.Identity, id string) error {
	request, err := s.ownedRequest(ctx, viewer, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.requests.Delete(ctx, request.ID.Hex()); err != nil {
		return fmt.Errorf("revoke access request: %w", err)
	}
	return nil
}

// Get returns a single request, visible only to its two parties.
func (s *ConsentService) Get(ctx context.Context, viewer model.Identity, id string) (*model.AccessRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find access request: %w", err)
	}
	if !isOwner(viewer, request) && request.EmployerID != viewer.UserID.String() {
		return nil, ErrForbidden
	}
	return request, nil
}

// ListForViewer returns the student's inbox or the employer's outbox.
func (s *ConsentService) ListForViewer(ctx context.Context, viewer model.Identity) ([]model.AccessRequest, error) {
	switch viewer.Role {
	case model.RoleStudent:
		requests, err := s.requests.FindByStudent(ctx, viewer.EnrollmentNo)
		if err != nil {
			return nil, fmt.Errorf("list access requests: %w", err)
		}
		return requests, nil
	case model.RoleEmployer:
		requests, err := s.requests.FindByEmployer(ctx, viewer.UserID.String())
		if err != nil {
			return nil, fmt.Errorf("list access requests: %w", err)
		}
		return requests, nil
	default:
		return nil, ErrForbidden
	}
}

// ResolveVisibility computes which private categories the viewer may see for
// the given student. The student themselves and institute users see the full
// catalog; an employer sees the union of approved fields across all of their
// approved requests for that student. RequestStatus is informational for UI
// messaging and never widens visibility.
func (s *ConsentService) ResolveVisibility(ctx context.Context, viewer model.Identity, enrlNo string) (*model.VisibilityResponse, error) {
	resp := &model.VisibilityResponse{
		StudentEnrlNo: enrlNo,
		PublicFields:  model.PublicFields,
		RequestStatus: model.StatusNone,
	}

	if viewer.Role == model.RoleInstitute || (viewer.Role == model.RoleStudent && viewer.EnrollmentNo == enrlNo) {
		resp.VisibleFields = append([]string{}, model.FieldCatalog...)
		return resp, nil
	}

	requests, err := s.requests.FindByEmployerAndStudent(ctx, viewer.UserID.String(), enrlNo)
	if err != nil {
		return nil, fmt.Errorf("resolve visibility: %w", err)
	}

	granted := make(map[string]bool)
	var latest *model.AccessRequest
	for i := range requests {
		request := &requests[i]
		if request.Status == model.StatusApproved {
			resp.RequestStatus = model.StatusApproved
			for _, field := range request.ApprovedFields {
				granted[field] = true
			}
		}
		if latest == nil || request.CreatedAt.After(latest.CreatedAt) {
			latest = request
		}
	}
	if resp.RequestStatus != model.StatusApproved && latest != nil {
		resp.RequestStatus = latest.Status
	}

	// Stable catalog ordering keeps the output deterministic.
	resp.VisibleFields = []string{}
	for _, field := range model.FieldCatalog {
		if granted[field] {
			resp.VisibleFields = append(resp.VisibleFields, field)
		}
	}
	if granted[model.FieldBasicVerification] {
		resp.VisibleFields = append(resp.VisibleFields, model.FieldBasicVerification)
	}
	return resp, nil
}

// ownedRequest loads a request and checks the caller is the owning student.
// Ownership is keyed on the enrollment number, the same key the request was
// filed against.
func (s *ConsentService) ownedRequest(ctx context.Context, viewer model.Identity, id string) (*model.AccessRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find access request: %w", err)
	}
	if !isOwner(viewer, request) {
		return nil, ErrForbidden
	}
	return request, nil
}

func isOwner(viewer model.Identity, request *model.AccessRequest) bool {
	return viewer.Role == model.RoleStudent &&
		viewer.EnrollmentNo != "" &&
		viewer.EnrollmentNo == request.StudentEnrlNo
}
