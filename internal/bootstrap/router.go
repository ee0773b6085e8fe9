package bootstrap

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/launchpad-labs/launchpad-backend/config"
	"github.com/launchpad-labs/launchpad-backend/internal/admin"
	adminhttp "github.com/launchpad-labs/launchpad-backend/internal/admin/http"
	"github.com/launchpad-labs/launchpad-backend/internal/admin/kms"
	httpapi "github.com/launchpad-labs/launchpad-backend/internal/api/http"
	apimw "github.com/launchpad-labs/launchpad-backend/internal/api/http/middleware"
	"github.com/launchpad-labs/launchpad-backend/internal/audit"
	authmw "github.com/launchpad-labs/launchpad-backend/internal/auth/middleware"
	projectshttp "github.com/launchpad-labs/launchpad-backend/internal/projects/http"
	projectsrepo "github.com/launchpad-labs/launchpad-backend/internal/projects/repository"
	projectssvc "github.com/launchpad-labs/launchpad-backend/internal/projects/service"
	usershttp "github.com/launchpad-labs/launchpad-backend/internal/users/http"
	usersrepo "github.com/launchpad-labs/launchpad-backend/internal/users/repository"
	userssvc "github.com/launchpad-labs/launchpad-backend/internal/users/service"
)

type RouterDeps struct {
	ServiceName string
	Cfg         *config.Config
	Log         *logrus.Logger
	DB          *pgxpool.Pool
	Redis       *redis.Client
	AuthClient  *fbauth.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimw.RequestID(dep.Log))
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Cfg.App.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	userRepo := usersrepo.NewRepo(dep.DB)
	userService := userssvc.NewUserService(userRepo, audit.NewLogSink(dep.Log), dep.Log)

	sessionRepo := projectsrepo.NewSessionProjectRepository(dep.Redis, dep.Cfg.App.SessionTTL)
	projectRepo := projectsrepo.NewProjectRepository(dep.DB)
	lifecycle := projectssvc.NewLifecycleService(sessionRepo, projectRepo, dep.Cfg.App.MemoryProjTTL, dep.Log)

	api := r.Group("/api/v1")
	api.Use(apimw.RateLimit(dep.Cfg.App.RateLimitRPS, dep.Cfg.App.RateLimitBurst))
	api.Use(authmw.Authenticate(dep.AuthClient, userService, dep.Log))

	usershttp.New(userService, dep.Log).Register(api.Group("/users"))
	projectshttp.New(lifecycle, dep.Log).Register(api.Group("/projects"))

	adminGroup := api.Group("/admin")
	adminGroup.Use(admin.RequireAdmin(dep.Cfg.Admin.Emails, dep.Log))
	adminhttp.New(userService, kms.NewTester(dep.Cfg.AWS.Region), dep.Log).Register(adminGroup)

	return r
}
