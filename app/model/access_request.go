package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"

	// StatusNone is never stored; the visibility resolver reports it when a
	// viewer has no request on file for a student.
	StatusNone RequestStatus = "none"
)

// AccessRequest is one employer's request for one student's private data.
// RequestedFields is fixed at creation; ApprovedFields is owned by the
// student and stays empty while the request is pending. A revoked request is
// deleted outright, there is no revoked status.
type AccessRequest struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployerID      string             `bson:"employerId" json:"employer_id"`
	EmployerName    string             `bson:"employerName" json:"employer_name"`
	EmployerEmail   string             `bson:"employerEmail" json:"employer_email"`
	StudentEnrlNo   string             `bson:"studentEnrlNo" json:"student_enrl_no"`
	StudentName     string             `bson:"studentName" json:"student_name"`
	Purpose         string             `bson:"purpose" json:"purpose"`
	RequestedFields []string           `bson:"requestedFields" json:"requested_fields"`
	ApprovedFields  []string           `bson:"approvedFields" json:"approved_fields"`
	Status          RequestStatus      `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updated_at"`
}

type CreateAccessRequest struct {
	StudentEnrlNo   string   `json:"student_enrl_no" validate:"required"`
	Purpose         string   `json:"purpose" validate:"required"`
	RequestedFields []string `json:"requested_fields"`
}

type ApproveAccessRequest struct {
	SelectedFields []string `json:"selected_fields" validate:"required,min=1"`
}

type AmendFieldsRequest struct {
	Fields []string `json:"fields"`
}

// VisibilityResponse is the resolver output the presentation layer consumes.
// RequestStatus is informational only and has no bearing on VisibleFields.
type VisibilityResponse struct {
	StudentEnrlNo string        `json:"student_enrl_no"`
	VisibleFields []string      `json:"visible_fields"`
	PublicFields  []string      `json:"public_fields"`
	RequestStatus RequestStatus `json:"request_status"`
}
