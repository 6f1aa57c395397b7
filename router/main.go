package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/config"
	"github.com/sahilchouksey/curriculum-catalog/database"
	"github.com/sahilchouksey/curriculum-catalog/handlers"
	auth_handlers "github.com/sahilchouksey/curriculum-catalog/handlers/auth"
	chapter_handlers "github.com/sahilchouksey/curriculum-catalog/handlers/chapter"
	curriculum_handlers "github.com/sahilchouksey/curriculum-catalog/handlers/curriculum"
	grade_handlers "github.com/sahilchouksey/curriculum-catalog/handlers/grade"
	knowledgepoint_handlers "github.com/sahilchouksey/curriculum-catalog/handlers/knowledgepoint"
	resource_handlers "github.com/sahilchouksey/curriculum-catalog/handlers/resource"
	subject_handlers "github.com/sahilchouksey/curriculum-catalog/handlers/subject"
	"github.com/sahilchouksey/curriculum-catalog/services"
	"github.com/sahilchouksey/curriculum-catalog/utils/auth"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	"github.com/sahilchouksey/curriculum-catalog/utils/middleware"
	"gorm.io/gorm"
)

// Options carries what SetupRoutes needs beyond the store.
type Options struct {
	Env *config.EnvironmentVariable
	Log *logger.Logger
	// Attempts backs login lockout; nil disables it.
	Attempts middleware.AttemptStore
	// DisableAccessLog is set by tests.
	DisableAccessLog bool
}

func SetupRoutes(app *fiber.App, store database.Storage, opts Options) error {
	env, log := opts.Env, opts.Log
	if env.JWT_SECRET == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return errors.New("store does not expose a GORM connection")
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        env.JWT_EXPIRY,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        env.JWT_ISSUER,
	})

	var bruteForceProtection *middleware.BruteForceProtection
	if opts.Attempts != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(opts.Attempts)
	} else {
		log.Warn("login lockout disabled: no attempt store")
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	authHandler := auth_handlers.NewAuthHandler(db, log, jwtManager, bruteForceProtection)

	subjectHandler := subject_handlers.NewSubjectHandler(services.NewSubjectService(db), log)
	gradeHandler := grade_handlers.NewGradeHandler(services.NewGradeService(db), log)
	curriculumHandler := curriculum_handlers.NewCurriculumHandler(services.NewCurriculumService(db), log)
	chapterHandler := chapter_handlers.NewChapterHandler(services.NewChapterService(db), log)
	knowledgePointHandler := knowledgepoint_handlers.NewKnowledgePointHandler(services.NewKnowledgePointService(db), log)
	resourceHandler := resource_handlers.NewLearningResourceHandler(services.NewLearningResourceService(db), log)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   time.Minute,
		DisableAccessLog:  opts.DisableAccessLog,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	api := app.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/logout-all", authMiddleware.Required(), authHandler.LogoutAll)
	authGroup.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)
	authGroup.Put("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Catalog routes, all authenticated
	required := authMiddleware.Required()

	subjects := api.Group("/subjects", required)
	subjects.Get("/", subjectHandler.ListSubjects)
	subjects.Post("/", subjectHandler.CreateSubject)
	subjects.Get("/:id", subjectHandler.GetSubject)
	subjects.Put("/:id", subjectHandler.UpdateSubject)
	subjects.Patch("/:id", subjectHandler.UpdateSubject)
	subjects.Delete("/:id", subjectHandler.DeleteSubject)

	grades := api.Group("/grades", required)
	grades.Get("/", gradeHandler.ListGrades)
	grades.Post("/", gradeHandler.CreateGrade)
	grades.Get("/:id", gradeHandler.GetGrade)
	grades.Put("/:id", gradeHandler.UpdateGrade)
	grades.Patch("/:id", gradeHandler.UpdateGrade)
	grades.Delete("/:id", gradeHandler.DeleteGrade)

	curriculums := api.Group("/curriculums", required)
	curriculums.Get("/", curriculumHandler.ListCurriculums)
	curriculums.Post("/", curriculumHandler.CreateCurriculum)
	curriculums.Get("/:id", curriculumHandler.GetCurriculum)
	curriculums.Put("/:id", curriculumHandler.UpdateCurriculum)
	curriculums.Patch("/:id", curriculumHandler.UpdateCurriculum)
	curriculums.Delete("/:id", curriculumHandler.DeleteCurriculum)

	chapters := api.Group("/chapters", required)
	chapters.Get("/", chapterHandler.ListChapters)
	chapters.Post("/", chapterHandler.CreateChapter)
	chapters.Get("/:id", chapterHandler.GetChapter)
	chapters.Put("/:id", chapterHandler.UpdateChapter)
	chapters.Patch("/:id", chapterHandler.UpdateChapter)
	chapters.Delete("/:id", chapterHandler.DeleteChapter)

	knowledgePoints := api.Group("/knowledge-points", required)
	knowledgePoints.Get("/", knowledgePointHandler.ListKnowledgePoints)
	knowledgePoints.Post("/", knowledgePointHandler.CreateKnowledgePoint)
	knowledgePoints.Get("/by-curriculum/:curriculum_id", knowledgePointHandler.ByCurriculum)
	knowledgePoints.Get("/:id", knowledgePointHandler.GetKnowledgePoint)
	knowledgePoints.Put("/:id", knowledgePointHandler.UpdateKnowledgePoint)
	knowledgePoints.Patch("/:id", knowledgePointHandler.UpdateKnowledgePoint)
	knowledgePoints.Delete("/:id", knowledgePointHandler.DeleteKnowledgePoint)

	resources := api.Group("/learning-resources", required)
	resources.Get("/", resourceHandler.ListResources)
	resources.Post("/", resourceHandler.CreateResource)
	resources.Get("/:id", resourceHandler.GetResource)
	resources.Put("/:id", resourceHandler.UpdateResource)
	resources.Patch("/:id", resourceHandler.UpdateResource)
	resources.Delete("/:id", resourceHandler.DeleteResource)

	return nil
}
