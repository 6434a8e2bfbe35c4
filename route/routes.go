package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"fiber/dvp/app/model"
	"fiber/dvp/app/repo"
	"fiber/dvp/app/service"
	"fiber/dvp/middleware"
)

func SetupRoutes(app *fiber.App, pgDB *gorm.DB, mongoDB *mongo.Database, redisClient *redis.Client) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	userRepo := repo.NewUserRepo(pgDB)
	sessionRepo := repo.NewSessionRepo(redisClient)
	requestRepo := repo.NewAccessRequestRepo(mongoDB)
	recordRepo := repo.NewStudentRecordRepo(mongoDB)

	consentService := service.NewConsentService(requestRepo)
	authService := service.NewAuthService(userRepo, sessionRepo)
	accessService := service.NewAccessService(consentService, recordRepo)
	recordService := service.NewRecordService(consentService, recordRepo)

	auth := v1.Group("/auth")
	auth.Post("/register", authService.Register)
	auth.Post("/login", authService.Login)
	auth.Post("/refresh", authService.Refresh)
	auth.Post("/logout", authService.Logout)

	protected := v1.Group("", middleware.AuthRequired(sessionRepo))

	protected.Get("/auth/profile", authService.Profile)

	requests := protected.Group("/requests")
	requests.Post("", middleware.RoleRequired(model.RoleEmployer), accessService.Create)
	requests.Get("", middleware.RoleRequired(model.RoleStudent, model.RoleEmployer), accessService.List)
	requests.Get("/:id", accessService.Get)
	requests.Post("/:id/approve", middleware.RoleRequired(model.RoleStudent), accessService.Approve)
	requests.Post("/:id/reject", middleware.RoleRequired(model.RoleStudent), accessService.Reject)
	requests.Put("/:id/fields", middleware.RoleRequired(model.RoleStudent), accessService.AmendFields)
	requests.Delete("/:id", middleware.RoleRequired(model.RoleStudent), accessService.Revoke)

	records := protected.Group("/records")
	records.Get("", middleware.RoleRequired(model.RoleInstitute), recordService.List)
	records.Post("", middleware.RoleRequired(model.RoleInstitute), recordService.Upsert)
	records.Put("/:enrollmentNo", middleware.RoleRequired(model.RoleInstitute), recordService.Upsert)
	records.Get("/:enrollmentNo", recordService.Get)
	records.Get("/:enrollmentNo/visibility", recordService.GetVisibility)
}
