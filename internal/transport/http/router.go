package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/handler"
	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/middleware"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// Usecases is everything the router serves.
type Usecases struct {
	Auth     *usecase.AuthUsecase
	Users    *usecase.UserUsecase
	Cohorts  *usecase.CohortUsecase
	Classes  *usecase.ClassUsecase
	Projects *usecase.ProjectUsecase
	Members  *usecase.MemberUsecase
	Tasks    *usecase.TaskUsecase
	Activity *usecase.ActivityUsecase
}

func NewRouter(logger *slog.Logger, uc Usecases) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.NewWithConfig(logger, sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	}))
	r.Use(middleware.Metrics())

	authH := handler.NewAuthHandler(uc.Auth, logger)
	userH := handler.NewUserHandler(uc.Users, logger)
	cohortH := handler.NewCohortHandler(uc.Cohorts, logger)
	classH := handler.NewClassHandler(uc.Classes, logger)
	projectH := handler.NewProjectHandler(uc.Projects, logger)
	memberH := handler.NewMemberHandler(uc.Members, logger)
	taskH := handler.NewTaskHandler(uc.Tasks, logger)
	activityH := handler.NewActivityHandler(uc.Activity, logger)

	authMW := middleware.Auth(uc.Auth, logger)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	studentOnly := middleware.RequireRoles(domain.RoleStudent)
	ownsUser := middleware.RequireOwnership(uc.Users.OwnerOf, logger)
	ownsProject := middleware.RequireOwnership(uc.Projects.OwnerOf, logger)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Project tracker API"})
	})

	// Public auth routes
	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/verify-2fa", authH.VerifyTwoFactor)
	auth.GET("/verify-email", authH.VerifyEmail)
	auth.POST("/resend-verification", authH.ResendVerification)
	auth.POST("/enable-2fa", authMW, authH.EnableTwoFactor)
	auth.POST("/disable-2fa", authMW, authH.DisableTwoFactor)

	users := r.Group("/users", authMW)
	users.GET("", adminOnly, userH.List)
	users.POST("", adminOnly, userH.Create)
	users.GET("/me", userH.Me)
	users.GET("/:id", ownsUser, userH.GetByID)
	users.PUT("/:id", ownsUser, userH.Update)
	users.DELETE("/:id", ownsUser, userH.Delete)

	cohorts := r.Group("/cohorts", authMW)
	cohorts.GET("", cohortH.List)
	cohorts.GET("/:id", cohortH.GetByID)
	cohorts.POST("", adminOnly, cohortH.Create)
	cohorts.PUT("/:id", adminOnly, cohortH.Update)
	cohorts.DELETE("/:id", adminOnly, cohortH.Delete)
	cohorts.POST("/:id/join", studentOnly, cohortH.Join)

	classes := r.Group("/classes", authMW)
	classes.GET("", classH.List)
	classes.GET("/:id", classH.GetByID)
	classes.GET("/:id/students", classH.Students)
	classes.POST("", adminOnly, classH.Create)
	classes.PUT("/:id", adminOnly, classH.Update)
	classes.DELETE("/:id", adminOnly, classH.Delete)
	classes.POST("/:id/join", studentOnly, classH.Join)

	projects := r.Group("/projects", authMW)
	projects.GET("", projectH.List)
	projects.POST("", projectH.Create)
	projects.GET("/:id", projectH.GetByID)
	projects.PUT("/:id", ownsProject, projectH.Update)
	projects.PATCH("/:id/status", ownsProject, projectH.SetStatus)
	projects.DELETE("/:id", ownsProject, projectH.Delete)
	projects.GET("/:id/tasks", taskH.ListByProject)

	members := r.Group("/members/projects/:id", authMW)
	members.POST("/invite", ownsProject, memberH.Invite)
	members.DELETE("/remove", ownsProject, memberH.Remove)
	members.POST("/respond", memberH.Respond)

	tasks := r.Group("/tasks", authMW)
	tasks.POST("", taskH.Create)
	tasks.GET("/:id", taskH.GetByID)
	tasks.PUT("/:id", taskH.Update)
	tasks.PATCH("/:id/status", taskH.SetStatus)
	tasks.DELETE("/:id", taskH.Delete)

	r.GET("/activities", authMW, adminOnly, activityH.List)

	return r
}
