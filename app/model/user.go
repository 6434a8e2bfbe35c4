package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleStudent   = "student"
	RoleEmployer  = "employer"
	RoleInstitute = "institute"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username     string    `gorm:"size:50;unique;not null" json:"username"`
	Email        string    `gorm:"size:100;unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"size:100" json:"full_name"`
	Role         string    `gorm:"size:20;not null" json:"role"`
	EnrollmentNo string    `gorm:"size:30;index" json:"enrollment_no,omitempty"` // students only
	CompanyName  string    `gorm:"size:100" json:"company_name,omitempty"`       // employers only
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Identity is the authenticated viewer the consent engine trusts. It carries
// exactly what the JWT claims carry, no credential re-verification happens
// past the middleware.
type Identity struct {
	UserID       uuid.UUID
	Name         string
	Email        string
	Role         string
	EnrollmentNo string
}

type JWTClaims struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	EnrollmentNo string    `json:"enrollment_no,omitempty"`
	Type         string    `json:"type"`
	jwt.RegisteredClaims
}

// Identity builds the viewer identity the services consume.
func (c *JWTClaims) Identity() Identity {
	return Identity{
		UserID:       c.UserID,
		Name:         c.FullName,
		Email:        c.Email,
		Role:         c.Role,
		EnrollmentNo: c.EnrollmentNo,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username     string `json:"username" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	FullName     string `json:"full_name" validate:"required"`
	Role         string `json:"role" validate:"required,oneof=student employer institute"`
	EnrollmentNo string `json:"enrollment_no" validate:"required_if=Role student"`
	CompanyName  string `json:"company_name"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RefreshTokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	EnrollmentNo string    `json:"enrollment_no,omitempty"`
	CompanyName  string    `json:"company_name,omitempty"`
}

type LoginUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	Role         string `json:"role"`
	EnrollmentNo string `json:"enrollmentNo,omitempty"`
}

type LoginResponse struct {
	User         LoginUser `json:"user"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
}
