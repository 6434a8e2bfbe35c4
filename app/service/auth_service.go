package service

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"fiber/dvp/app/model"
	"fiber/dvp/app/repo"
	"fiber/dvp/helper"
)

const refreshTokenTTL = 7 * 24 * time.Hour

type AuthService struct {
	users    repo.UserRepository
	sessions repo.SessionRepository
}

func NewAuthService(users repo.UserRepository, sessions repo.SessionRepository) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// /api/v1/auth/register
func (s *AuthService) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
			Success: false,
			Message: "Invalid input",
		})
	}
	if err := helper.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
			Success: false,
			Message: helper.FormatValidationErrors(err),
		})
	}

	hash, err := helper.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
			Success: false,
			Message: "Failed to hash password",
		})
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		EnrollmentNo: req.EnrollmentNo,
		CompanyName:  req.CompanyName,
		IsActive:     true,
	}

	if err := s.users.Create(&user); err != nil {
		return c.Status(fiber.StatusConflict).JSON(model.ErrorResponse{
			Success: false,
			Message: "Username or email already taken",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(model.SuccessResponse[model.UserResponse]{
		Success: true,
		Message: "Registration successful",
		Data: model.UserResponse{
			ID:           user.ID,
			Username:     user.Username,
			Email:        user.Email,
			FullName:     user.FullName,
			Role:         user.Role,
			EnrollmentNo: user.EnrollmentNo,
			CompanyName:  user.CompanyName,
		},
	})
}

// /api/v1/auth/login
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
			Success: false,
			Message: "Invalid input",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
			Success: false,
			Message: "Username and Password are required",
		})
	}

	user, err := s.users.FindByUsername(req.Username)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
			Success: false,
			Message: "Invalid credentials",
		})
	}

	if !helper.CheckPasswordHash(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
			Success: false,
			Message: "Invalid credentials",
		})
	}

	token, err := helper.GenerateToken(*user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
			Success: false,
			Message: "Failed to generate token",
		})
	}

	refreshToken, err := helper.GenerateRefreshToken(*user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
			Success: false,
			Message: "Failed to generate refresh token",
		})
	}

	if err := s.sessions.SaveRefreshToken(c.Context(), user.ID.String(), refreshToken, refreshTokenTTL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
			Success: false,
			Message: "Failed to save refresh token",
		})
	}

	return c.JSON(model.LoginSuccessResponse{
		Success: true,
		Message: "Login successful",
		Data: model.LoginResponse{
			User: model.LoginUser{
				ID:           user.ID.String(),
				Username:     user.Username,
				FullName:     user.FullName,
				Role:         user.Role,
				EnrollmentNo: user.EnrollmentNo,
			},
			Token:        token,
			RefreshToken: refreshToken,
		},
	})
}

// /api/v1/auth/refresh
func (s *AuthService) Refresh(c *fiber.Ctx) error {
	var req model.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
			Success: false,
			Message: "Refresh token required",
		})
	}

	claims, err := helper.ValidateToken(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
			Success: false,
			Message: "Invalid refresh token",
		})
	}

	if claims.Type != "refresh" {
		return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
			Success: false,
			Message: "Invalid token type",
		})
	}

	stored, err := s.sessions.GetRefreshToken(c.Context(), claims.UserID.String())
	if err != nil || stored != req.RefreshToken {
		return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
			Success: false,
			Message: "Invalid refresh token",
		})
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
			Success: false,
			Message: "User not found",
		})
	}

	newToken, err := helper.GenerateToken(*user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
			Success: false,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(model.SuccessResponse[model.RefreshTokenResponse]{
		Success: true,
		Message: "Token refreshed",
		Data: model.RefreshTokenResponse{
			Token: newToken,
		},
	})
}

// /api/v1/auth/logout
func (s *AuthService) Logout(c *fiber.Ctx) error {
	bearer := strings.TrimSpace(c.Get("Authorization"))
	if len(bearer) < 8 {
		return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
			Success: false,
			Message: "Token required",
		})
	}

	tokenString := strings.TrimSpace(bearer[7:])

	claims, err := helper.ValidateToken(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
			Success: false,
			Message: "Invalid token",
		})
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.sessions.BlacklistToken(c.Context(), tokenString, ttl); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
			Success: false,
			Message: "Failed to logout",
		})
	}

	if err := s.sessions.DeleteRefreshToken(c.Context(), claims.UserID.String()); err != nil {
		log.Printf("Failed to clear refresh token for user %s: %v", claims.UserID, err)
	}

	return c.JSON(model.SuccessMessageResponse{
		Success: true,
		Message: "Successfully logged out",
	})
}

// /api/v1/auth/profile
func (s *AuthService) Profile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*model.JWTClaims)

	return c.JSON(model.SuccessResponse[model.UserResponse]{
		Success: true,
		Data: model.UserResponse{
			ID:           claims.UserID,
			Username:     claims.Username,
			Email:        claims.Email,
			FullName:     claims.FullName,
			Role:         claims.Role,
			EnrollmentNo: claims.EnrollmentNo,
		},
	})
}
