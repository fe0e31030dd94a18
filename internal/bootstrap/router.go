package bootstrap

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	httpapi "github.com/emergent-shell/shell-backend/internal/api/http"
	"github.com/emergent-shell/shell-backend/internal/api/http/middleware"
	"github.com/emergent-shell/shell-backend/internal/applog"
	"github.com/emergent-shell/shell-backend/internal/auth"
	cmdhttp "github.com/emergent-shell/shell-backend/internal/commands/http"
	"github.com/emergent-shell/shell-backend/internal/events"
	projhttp "github.com/emergent-shell/shell-backend/internal/projects/http"
	"github.com/emergent-shell/shell-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Log            *logrus.Logger

	DB    *pgxpool.Pool
	Redis *redis.Client

	// AuthClient nil means development mode: identity from X-User-Id.
	AuthClient *fbauth.Client

	CommandHandler *cmdhttp.Handler
	ProjectService *service.Service
	Bus            events.Bus
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(applog.RequestLogger(dep.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-User-Id", "X-Request-Id"},
		AllowCredentials: true,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	if dep.AuthClient != nil {
		api.Use(auth.Middleware(dep.AuthClient))
	} else {
		api.Use(auth.HeaderIdentity())
	}

	dep.CommandHandler.Register(api.Group("/commands"))
	projhttp.New(dep.ProjectService).Register(api.Group("/projects"))

	return r
}
