package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"fiber/dvp/app/model"
)

// fakeRequestRepo is an in-memory AccessRequestRepository. Creation times are
// advanced by a second per insert so recency ordering is deterministic.
type fakeRequestRepo struct {
	requests map[string]model.AccessRequest
	clock    time.Time
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: make(map[string]model.AccessRequest),
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRequestRepo) Create(_ context.Context, req *model.AccessRequest) (*model.AccessRequest, error) {
	f.clock = f.clock.Add(time.Second)
	req.ID = primitive.NewObjectID()
	req.CreatedAt = f.clock
	req.UpdatedAt = f.clock
	f.requests[req.ID.Hex()] = *req
	return req, nil
}

func (f *fakeRequestRepo) FindByID(_ context.Context, id string) (*model.AccessRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &req, nil
}

func (f *fakeRequestRepo) FindByStudent(_ context.Context, enrlNo string) ([]model.AccessRequest, error) {
	return f.filter(func(r model.AccessRequest) bool { return r.StudentEnrlNo == enrlNo }), nil
}

func (f *fakeRequestRepo) FindByEmployer(_ context.Context, employerID string) ([]model.AccessRequest, error) {
	return f.filter(func(r model.AccessRequest) bool { return r.EmployerID == employerID }), nil
}

func (f *fakeRequestRepo) FindByEmployerAndStudent(_ context.Context, employerID, enrlNo string) ([]model.AccessRequest, error) {
	return f.filter(func(r model.AccessRequest) bool {
		return r.EmployerID == employerID && r.StudentEnrlNo == enrlNo
	}), nil
}

func (f *fakeRequestRepo) filter(keep func(model.AccessRequest) bool) []model.AccessRequest {
	matched := []model.AccessRequest{}
	for _, req := range f.requests {
		if keep(req) {
			matched = append(matched, req)
		}
	}
	return matched
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, id string, status model.RequestStatus, approvedFields []string) (*model.AccessRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	req.Status = status
	if approvedFields != nil {
		req.ApprovedFields = approvedFields
	}
	f.requests[id] = req
	return &req, nil
}

func (f *fakeRequestRepo) UpdateApprovedFields(_ context.Context, id string, fields []string) (*model.AccessRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	req.ApprovedFields = fields
	f.requests[id] = req
	return &req, nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id string) error {
	delete(f.requests, id)
	return nil
}

var (
	employerID = uuid.MustParse("6a2f0a10-1111-4a6e-9c01-000000000001")
	studentID  = uuid.MustParse("6a2f0a10-2222-4a6e-9c01-000000000002")
)

func employerIdentity() model.Identity {
	return model.Identity{
		UserID: employerID,
		Name:   "Acme Corp HR",
		Email:  "hr@acme.example",
		Role:   model.RoleEmployer,
	}
}

func studentIdentity() model.Identity {
	return model.Identity{
		UserID:       studentID,
		Name:         "Asha Verma",
		Role:         model.RoleStudent,
		EnrollmentNo: "EN2021001",
	}
}

func newTestService() (*ConsentService, *fakeRequestRepo) {
	fake := newFakeRequestRepo()
	return NewConsentService(fake), fake
}

func createRequest(t *testing.T, s *ConsentService, fields []string) *model.AccessRequest {
	t.Helper()
	created, err := s.CreateRequest(context.Background(), employerIdentity(), model.CreateAccessRequest{
		StudentEnrlNo:   "EN2021001",
		Purpose:         "Hiring",
		RequestedFields: fields,
	}, "Asha Verma")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return created
}

func TestCreateRequestNormalizesFields(t *testing.T) {
	s, _ := newTestService()

	created := createRequest(t, s, []string{"email", "subjects", "email", model.FieldSubjectScores, "bogus"})

	want := []string{model.FieldContactInfo, model.FieldSubjectScores}
	if !reflect.DeepEqual(created.RequestedFields, want) {
		t.Fatalf("expected %v, got %v", want, created.RequestedFields)
	}
	if created.Status != model.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if len(created.ApprovedFields) != 0 {
		t.Fatalf("pending request must have no approved fields, got %v", created.ApprovedFields)
	}
}

func TestCreateRequestEmptyFieldsFallsBackToSentinel(t *testing.T) {
	s, _ := newTestService()

	created := createRequest(t, s, nil)

	want := []string{model.FieldBasicVerification}
	if !reflect.DeepEqual(created.RequestedFields, want) {
		t.Fatalf("expected %v, got %v", want, created.RequestedFields)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	noEmail := employerIdentity()
	noEmail.Email = ""

	cases := map[string]struct {
		identity model.Identity
		req      model.CreateAccessRequest
		want     error
	}{
		"student caller": {
			identity: studentIdentity(),
			req:      model.CreateAccessRequest{StudentEnrlNo: "EN2021001", Purpose: "Hiring"},
			want:     ErrForbidden,
		},
		"missing employer email": {
			identity: noEmail,
			req:      model.CreateAccessRequest{StudentEnrlNo: "EN2021001", Purpose: "Hiring"},
			want:     ErrValidation,
		},
		"missing enrollment number": {
			identity: employerIdentity(),
			req:      model.CreateAccessRequest{Purpose: "Hiring"},
			want:     ErrValidation,
		},
		"missing purpose": {
			identity: employerIdentity(),
			req:      model.CreateAccessRequest{StudentEnrlNo: "EN2021001"},
			want:     ErrValidation,
		},
	}

	for name, tc := range cases {
		if _, err := s.CreateRequest(ctx, tc.identity, tc.req, "Asha Verma"); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, err)
		}
	}
}

func TestApproveSubset(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email", "subjects"})

	approved, err := s.Approve(ctx, studentIdentity(), created.ID.Hex(), []string{model.FieldContactInfo})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if !reflect.DeepEqual(approved.ApprovedFields, []string{model.FieldContactInfo}) {
		t.Fatalf("unexpected approved fields %v", approved.ApprovedFields)
	}
}

func TestApproveOutsideRequestedSetIsAllowed(t *testing.T) {
	s, _ := newTestService()

	created := createRequest(t, s, []string{"email"})

	approved, err := s.Approve(context.Background(), studentIdentity(), created.ID.Hex(), []string{"personal"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !reflect.DeepEqual(approved.ApprovedFields, []string{model.FieldPersonalDetails}) {
		t.Fatalf("unexpected approved fields %v", approved.ApprovedFields)
	}
}

func TestApproveEmptySelectionFails(t *testing.T) {
	s, fake := newTestService()

	created := createRequest(t, s, []string{"email"})

	for _, selection := range [][]string{nil, {}, {"bogus"}} {
		if _, err := s.Approve(context.Background(), studentIdentity(), created.ID.Hex(), selection); !errors.Is(err, ErrValidation) {
			t.Fatalf("selection %v: expected validation error, got %v", selection, err)
		}
	}

	stored := fake.requests[created.ID.Hex()]
	if stored.Status != model.StatusPending || len(stored.ApprovedFields) != 0 {
		t.Fatalf("failed approval must not mutate, got %s %v", stored.Status, stored.ApprovedFields)
	}
}

func TestOwnershipEnforcement(t *testing.T) {
	s, fake := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email"})
	id := created.ID.Hex()

	intruders := map[string]model.Identity{
		"other student": {UserID: uuid.New(), Role: model.RoleStudent, EnrollmentNo: "EN2021999"},
		"the employer":  employerIdentity(),
		"no enrollment": {UserID: uuid.New(), Role: model.RoleStudent},
	}

	for name, intruder := range intruders {
		if _, err := s.Approve(ctx, intruder, id, []string{"email"}); !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s approve: expected forbidden, got %v", name, err)
		}
		if _, err := s.Reject(ctx, intruder, id); !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s reject: expected forbidden, got %v", name, err)
		}
		if _, err := s.AmendApprovedFields(ctx, intruder, id, []string{"email"}); !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s amend: expected forbidden, got %v", name, err)
		}
		if err := s.Revoke(ctx, intruder, id); !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s revoke: expected forbidden, got %v", name, err)
		}
	}

	stored := fake.requests[id]
	if stored.Status != model.StatusPending {
		t.Fatalf("request mutated by unauthorized callers: %s", stored.Status)
	}
}

func TestOperationsOnUnknownID(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	unknown := primitive.NewObjectID().Hex()

	if _, err := s.Approve(ctx, studentIdentity(), unknown, []string{"email"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("approve: expected not found, got %v", err)
	}
	if _, err := s.Reject(ctx, studentIdentity(), unknown); !errors.Is(err, ErrNotFound) {
		t.Fatalf("reject: expected not found, got %v", err)
	}
	if _, err := s.AmendApprovedFields(ctx, studentIdentity(), unknown, []string{"email"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("amend: expected not found, got %v", err)
	}
	// Revoke is the exception: unknown ids are a no-op success.
	if err := s.Revoke(ctx, studentIdentity(), unknown); err != nil {
		t.Fatalf("revoke: expected success, got %v", err)
	}
}

func TestAmendRequiresApprovedStatus(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email"})
	if _, err := s.AmendApprovedFields(ctx, studentIdentity(), created.ID.Hex(), []string{"email"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("amend pending: expected validation error, got %v", err)
	}

	rejected := createRequest(t, s, []string{"email"})
	if _, err := s.Reject(ctx, studentIdentity(), rejected.ID.Hex()); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := s.AmendApprovedFields(ctx, studentIdentity(), rejected.ID.Hex(), []string{"email"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("amend rejected: expected validation error, got %v", err)
	}
}

func TestAmendReplacesFields(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email", "subjects"})
	if _, err := s.Approve(ctx, studentIdentity(), created.ID.Hex(), []string{"email", "subjects"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	amended, err := s.AmendApprovedFields(ctx, studentIdentity(), created.ID.Hex(), []string{"personal"})
	if err != nil {
		t.Fatalf("amend: %v", err)
	}
	if !reflect.DeepEqual(amended.ApprovedFields, []string{model.FieldPersonalDetails}) {
		t.Fatalf("amend must replace, not merge: %v", amended.ApprovedFields)
	}
	if amended.Status != model.StatusApproved {
		t.Fatalf("amend must keep approved status, got %s", amended.Status)
	}
}

func TestAmendToEmptyRevokes(t *testing.T) {
	s, fake := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email"})
	if _, err := s.Approve(ctx, studentIdentity(), created.ID.Hex(), []string{"email"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	amended, err := s.AmendApprovedFields(ctx, studentIdentity(), created.ID.Hex(), []string{})
	if err != nil {
		t.Fatalf("amend to empty: %v", err)
	}
	if amended != nil {
		t.Fatalf("expected nil request after revoke-via-amend, got %+v", amended)
	}
	if _, ok := fake.requests[created.ID.Hex()]; ok {
		t.Fatalf("request should be deleted")
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email"})
	id := created.ID.Hex()

	if err := s.Revoke(ctx, studentIdentity(), id); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := s.Revoke(ctx, studentIdentity(), id); err != nil {
		t.Fatalf("second revoke: %v", err)
	}

	requests, err := s.ListForViewer(ctx, studentIdentity())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, req := range requests {
		if req.ID.Hex() == id {
			t.Fatalf("revoked request still listed")
		}
	}
}

func TestResolveVisibilityPendingShowsPublicOnly(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	createRequest(t, s, []string{"email", "subjects"})

	vis, err := s.ResolveVisibility(ctx, employerIdentity(), "EN2021001")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(vis.VisibleFields) != 0 {
		t.Fatalf("pending request must grant nothing, got %v", vis.VisibleFields)
	}
	if vis.RequestStatus != model.StatusPending {
		t.Fatalf("expected pending status, got %s", vis.RequestStatus)
	}
	if !reflect.DeepEqual(vis.PublicFields, model.PublicFields) {
		t.Fatalf("public fields must always be reported, got %v", vis.PublicFields)
	}
}

func TestResolveVisibilityApprovedSubset(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email", "subjects"})
	if _, err := s.Approve(ctx, studentIdentity(), created.ID.Hex(), []string{"email"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	vis, err := s.ResolveVisibility(ctx, employerIdentity(), "EN2021001")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(vis.VisibleFields, []string{model.FieldContactInfo}) {
		t.Fatalf("expected exactly the approved subset, got %v", vis.VisibleFields)
	}
	if vis.RequestStatus != model.StatusApproved {
		t.Fatalf("expected approved status, got %s", vis.RequestStatus)
	}
}

func TestResolveVisibilityEmployerIsolation(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email"})
	if _, err := s.Approve(ctx, studentIdentity(), created.ID.Hex(), []string{"email"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	other := model.Identity{UserID: uuid.New(), Name: "Globex", Email: "jobs@globex.example", Role: model.RoleEmployer}
	vis, err := s.ResolveVisibility(ctx, other, "EN2021001")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(vis.VisibleFields) != 0 {
		t.Fatalf("other employer must see nothing, got %v", vis.VisibleFields)
	}
	if vis.RequestStatus != model.StatusNone {
		t.Fatalf("expected none, got %s", vis.RequestStatus)
	}
}

func TestResolveVisibilityUnionsApprovedRequests(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	first := createRequest(t, s, []string{"email"})
	second := createRequest(t, s, []string{"personal"})
	if _, err := s.Approve(ctx, studentIdentity(), first.ID.Hex(), []string{"email"}); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	if _, err := s.Approve(ctx, studentIdentity(), second.ID.Hex(), []string{"personal"}); err != nil {
		t.Fatalf("approve second: %v", err)
	}

	vis, err := s.ResolveVisibility(ctx, employerIdentity(), "EN2021001")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []string{model.FieldContactInfo, model.FieldPersonalDetails}
	if !reflect.DeepEqual(vis.VisibleFields, want) {
		t.Fatalf("expected union %v, got %v", want, vis.VisibleFields)
	}
}

func TestResolveVisibilityMonotonic(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email", "subjects", "personal"})
	if _, err := s.Approve(ctx, studentIdentity(), created.ID.Hex(), []string{"email"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	before, _ := s.ResolveVisibility(ctx, employerIdentity(), "EN2021001")

	if _, err := s.AmendApprovedFields(ctx, studentIdentity(), created.ID.Hex(), []string{"email", "subjects"}); err != nil {
		t.Fatalf("grow: %v", err)
	}
	grown, _ := s.ResolveVisibility(ctx, employerIdentity(), "EN2021001")
	if len(grown.VisibleFields) < len(before.VisibleFields) {
		t.Fatalf("adding fields shrank visibility: %v -> %v", before.VisibleFields, grown.VisibleFields)
	}

	if _, err := s.AmendApprovedFields(ctx, studentIdentity(), created.ID.Hex(), []string{"subjects"}); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	shrunk, _ := s.ResolveVisibility(ctx, employerIdentity(), "EN2021001")
	if len(shrunk.VisibleFields) > len(grown.VisibleFields) {
		t.Fatalf("removing fields grew visibility: %v -> %v", grown.VisibleFields, shrunk.VisibleFields)
	}
}

func TestResolveVisibilityAfterRevoke(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	created := createRequest(t, s, []string{"email"})
	if _, err := s.Approve(ctx, studentIdentity(), created.ID.Hex(), []string{"email"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := s.Revoke(ctx, studentIdentity(), created.ID.Hex()); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	vis, err := s.ResolveVisibility(ctx, employerIdentity(), "EN2021001")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(vis.VisibleFields) != 0 || vis.RequestStatus != model.StatusNone {
		t.Fatalf("revoked grant must vanish, got %v %s", vis.VisibleFields, vis.RequestStatus)
	}
}

func TestResolveVisibilityOwnerAndInstitute(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	viewers := map[string]model.Identity{
		"owner student": studentIdentity(),
		"institute":     {UserID: uuid.New(), Role: model.RoleInstitute},
	}
	for name, viewer := range viewers {
		vis, err := s.ResolveVisibility(ctx, viewer, "EN2021001")
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !reflect.DeepEqual(vis.VisibleFields, model.FieldCatalog) {
			t.Fatalf("%s must see the full catalog, got %v", name, vis.VisibleFields)
		}
	}

	// A different student gets no such override.
	other := model.Identity{UserID: uuid.New(), Role: model.RoleStudent, EnrollmentNo: "EN2021999"}
	vis, err := s.ResolveVisibility(ctx, other, "EN2021001")
	if err != nil {
		t.Fatalf("other student: %v", err)
	}
	if len(vis.VisibleFields) != 0 {
		t.Fatalf("other student must see nothing, got %v", vis.VisibleFields)
	}
}

func TestResolveVisibilityReportsMostRecentStatus(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	first := createRequest(t, s, []string{"email"})
	if _, err := s.Reject(ctx, studentIdentity(), first.ID.Hex()); err != nil {
		t.Fatalf("reject: %v", err)
	}

	vis, _ := s.ResolveVisibility(ctx, employerIdentity(), "EN2021001")
	if vis.RequestStatus != model.StatusRejected {
		t.Fatalf("expected rejected, got %s", vis.RequestStatus)
	}

	// A newer pending request takes precedence for messaging.
	createRequest(t, s, []string{"subjects"})
	vis, _ = s.ResolveVisibility(ctx, employerIdentity(), "EN2021001")
	if vis.RequestStatus != model.StatusPending {
		t.Fatalf("expected pending, got %s", vis.RequestStatus)
	}
}
