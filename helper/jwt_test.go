package helper

import (
	"testing"

	"github.com/google/uuid"

	"fiber/dvp/app/model"
	"fiber/dvp/config"
)

func testUser() model.User {
	return model.User{
		ID:           uuid.New(),
		Username:     "asha",
		Email:        "asha@student.example",
		FullName:     "Asha Verma",
		Role:         model.RoleStudent,
		EnrollmentNo: "EN2021001",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	config.Env.JWTSecret = "test-secret"

	user := testUser()
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Type != "access" {
		t.Fatalf("expected access token, got %s", claims.Type)
	}
	if claims.UserID != user.ID || claims.Role != model.RoleStudent || claims.EnrollmentNo != "EN2021001" {
		t.Fatalf("claims do not match user: %+v", claims)
	}
}

func TestRefreshTokenType(t *testing.T) {
	config.Env.JWTSecret = "test-secret"

	token, err := GenerateRefreshToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Type != "refresh" {
		t.Fatalf("expected refresh token, got %s", claims.Type)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	config.Env.JWTSecret = "test-secret"

	token, err := GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	config.Env.JWTSecret = "another-secret"
	if _, err := ValidateToken(token); err == nil {
		t.Fatalf("expected validation to fail with a different secret")
	}
	config.Env.JWTSecret = "test-secret"
}
