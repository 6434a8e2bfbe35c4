package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"fiber/dvp/app/model"
)

func roleApp(role string) *fiber.App {
	app := fiber.New()
	if role != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("role", role)
			return c.Next()
		})
	}
	handler := func(c *fiber.Ctx) error {
		return c.JSON(model.SuccessMessageResponse{Success: true, Message: "ok"})
	}
	app.Get("/student-only", RoleRequired(model.RoleStudent), handler)
	app.Get("/staff", RoleRequired(model.RoleEmployer, model.RoleInstitute), handler)
	return app
}

func TestRoleRequired(t *testing.T) {
	cases := []struct {
		role   string
		path   string
		status int
	}{
		{model.RoleStudent, "/student-only", fiber.StatusOK},
		{model.RoleEmployer, "/student-only", fiber.StatusForbidden},
		{model.RoleEmployer, "/staff", fiber.StatusOK},
		{model.RoleInstitute, "/staff", fiber.StatusOK},
		{model.RoleStudent, "/staff", fiber.StatusForbidden},
		{"", "/student-only", fiber.StatusUnauthorized},
	}

	for _, tc := range cases {
		app := roleApp(tc.role)
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		if err != nil {
			t.Fatalf("role %q %s: %v", tc.role, tc.path, err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("role %q %s: expected %d, got %d", tc.role, tc.path, tc.status, resp.StatusCode)
		}
	}
}
