package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentRecord is the credential record an institute maintains for one
// student. The top-level name/degree/university/graduationYear block is
// always public; the remaining blocks map one-to-one onto catalog fields and
// are gated by the visibility resolver.
type StudentRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EnrollmentNo   string             `bson:"enrollmentNo" json:"enrollment_no"`
	Name           string             `bson:"name" json:"name"`
	Degree         string             `bson:"degree" json:"degree"`
	University     string             `bson:"university" json:"university"`
	GraduationYear int                `bson:"graduationYear" json:"graduation_year"`
	Contact        ContactInfo        `bson:"contact" json:"contact"`
	Personal       PersonalDetails    `bson:"personal" json:"personal"`
	Academic       AcademicSummary    `bson:"academic" json:"academic"`
	Subjects       []SubjectScore     `bson:"subjects" json:"subjects"`
	Documents      []RecordDocument   `bson:"documents" json:"documents"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updated_at"`
}

type ContactInfo struct {
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
}

type PersonalDetails struct {
	DateOfBirth string `bson:"dateOfBirth" json:"date_of_birth"`
	Gender      string `bson:"gender" json:"gender"`
	Nationality string `bson:"nationality" json:"nationality"`
}

type AcademicSummary struct {
	Division string  `bson:"division" json:"division"`
	CGPA     float64 `bson:"cgpa" json:"cgpa"`
}

type SubjectScore struct {
	Code     string `bson:"code" json:"code"`
	Name     string `bson:"name" json:"name"`
	MaxMarks int    `bson:"maxMarks" json:"max_marks"`
	Obtained int    `bson:"obtained" json:"obtained"`
}

// RecordDocument is a reference to an externally stored upload.
type RecordDocument struct {
	FileName   string    `bson:"fileName" json:"file_name"`
	FileURL    string    `bson:"fileUrl" json:"file_url"`
	FileType   string    `bson:"fileType" json:"file_type"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploaded_at"`
}

type UpsertStudentRecordRequest struct {
	EnrollmentNo   string           `json:"enrollment_no" validate:"required"`
	Name           string           `json:"name" validate:"required"`
	Degree         string           `json:"degree" validate:"required"`
	University     string           `json:"university" validate:"required"`
	GraduationYear int              `json:"graduation_year" validate:"required,gt=1900"`
	Contact        ContactInfo      `json:"contact"`
	Personal       PersonalDetails  `json:"personal"`
	Academic       AcademicSummary  `json:"academic"`
	Subjects       []SubjectScore   `json:"subjects"`
	Documents      []RecordDocument `json:"documents"`
}

// StudentRecordView is the gated shape served to a viewer: public block
// always present, private blocks omitted unless their category is visible.
type StudentRecordView struct {
	EnrollmentNo   string           `json:"enrollment_no"`
	Name           string           `json:"name"`
	Degree         string           `json:"degree"`
	University     string           `json:"university"`
	GraduationYear int              `json:"graduation_year"`
	Contact        *ContactInfo     `json:"contact,omitempty"`
	Personal       *PersonalDetails `json:"personal,omitempty"`
	Academic       *AcademicSummary `json:"academic,omitempty"`
	Subjects       []SubjectScore   `json:"subjects,omitempty"`
	VisibleFields  []string         `json:"visible_fields"`
	RequestStatus  RequestStatus    `json:"request_status"`
}
