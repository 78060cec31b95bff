package router

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/yukikurage/okr-tracker/internal/config"
	"github.com/yukikurage/okr-tracker/internal/constants"
	"github.com/yukikurage/okr-tracker/internal/handlers"
	"github.com/yukikurage/okr-tracker/internal/logger"
	"github.com/yukikurage/okr-tracker/internal/middleware"
	"github.com/yukikurage/okr-tracker/internal/repository"
	"github.com/yukikurage/okr-tracker/internal/services"
	"github.com/yukikurage/okr-tracker/internal/view"
	"gorm.io/gorm"
)

// Options configures the engine built by New
type Options struct {
	Config       *config.Config
	DB           *gorm.DB
	SessionStore sessions.Store
	// HTMLRender replaces the template loader when set
	HTMLRender render.HTMLRender
}

// NewSessionStore creates the cookie or Redis backed session store
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var (
		store sessions.Store
		err   error
	)

	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		store, err = redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			cfg.RedisAddr(),
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
	case config.SessionStoreCookie, "":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}

	store.Options(middleware.SessionOptions(cfg.IsProduction(), 0))

	return store, nil
}

// New builds the gin engine with every route of the application
func New(opts Options) *gin.Engine {
	cfg := opts.Config
	db := opts.DB

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Log.Errorw("panic recovered", "request_id", middleware.GetRequestID(c), "panic", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	r.Use(sessions.Sessions(constants.SessionCookieName, opts.SessionStore))
	r.Use(middleware.SessionLifetime(cfg.IsProduction()))

	if opts.HTMLRender != nil {
		r.HTMLRender = opts.HTMLRender
	} else {
		r.SetFuncMap(view.FuncMap())
		r.LoadHTMLGlob(filepath.Join(cfg.TemplateDir, "*", "*.html"))
	}
	r.Static("/static", cfg.StaticDir)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	objectiveRepo := repository.NewObjectiveRepository(db)
	keyResultRepo := repository.NewKeyResultRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	objectiveService := services.NewObjectiveService(objectiveRepo, keyResultRepo)
	keyResultService := services.NewKeyResultService(keyResultRepo, objectiveService)
	dashboardService := services.NewDashboardService(objectiveService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.IsProduction())
	objectiveHandler := handlers.NewObjectiveHandler(objectiveService)
	keyResultHandler := handlers.NewKeyResultHandler(keyResultService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	healthHandler := handlers.NewHealthHandler(db)

	r.GET("/health", healthHandler.Health)

	r.NoRoute(middleware.LoadCurrentUser(authService), func(c *gin.Context) {
		handlers.HTMLFailure(c, http.StatusNotFound, nil)
	})

	// HTML routes
	web := r.Group("")
	web.Use(middleware.LoadCurrentUser(authService))
	{
		web.GET("/", dashboardHandler.Index)
		web.GET("/register", authHandler.ShowRegister)
		web.POST("/register", authHandler.Register)
		web.GET("/login", authHandler.ShowLogin)
		web.POST("/login", authHandler.Login)
		web.GET("/logout", authHandler.Logout)

		protected := web.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/dashboard", dashboardHandler.Show)
			protected.GET("/account/password", authHandler.ShowChangePassword)
			protected.POST("/account/password", authHandler.ChangePassword)

			protected.GET("/objectives", objectiveHandler.List)
			protected.GET("/objectives/new", objectiveHandler.ShowNew)
			protected.POST("/objectives/new", objectiveHandler.Create)

			objective := protected.Group("/objectives/:id")
			objective.Use(middleware.RequireObjectiveAccess(objectiveService, handlers.HTMLFailure))
			{
				objective.GET("", objectiveHandler.Show)
				objective.GET("/edit", objectiveHandler.ShowEdit)
				objective.POST("/edit", objectiveHandler.Update)
				objective.POST("/delete", objectiveHandler.Delete)
				objective.GET("/keyresults/new", keyResultHandler.ShowNew)
				objective.POST("/keyresults/new", keyResultHandler.Create)
			}

			keyResult := protected.Group("/keyresults/:id")
			keyResult.Use(middleware.RequireKeyResultAccess(keyResultService, handlers.HTMLFailure))
			{
				keyResult.GET("/edit", keyResultHandler.ShowEdit)
				keyResult.POST("/edit", keyResultHandler.Update)
				keyResult.POST("/delete", keyResultHandler.Delete)
				keyResult.GET("/update", keyResultHandler.ShowProgress)
				keyResult.POST("/update", keyResultHandler.RecordProgress)
			}
		}
	}

	// API routes
	api := r.Group("/api")
	api.Use(middleware.RequireAPIAuth())
	{
		api.GET("/me", authHandler.GetCurrentUser)
		api.GET("/dashboard", dashboardHandler.GetDashboardJSON)
		api.GET("/objectives/:id", middleware.RequireObjectiveAccess(objectiveService, handlers.APIFailure), objectiveHandler.GetObjectiveJSON)
		api.POST("/objectives/:id/complete", middleware.RequireObjectiveAccess(objectiveService, handlers.APIFailure), objectiveHandler.SetComplete)
		api.GET("/keyresults/:id/updates", middleware.RequireKeyResultAccess(keyResultService, handlers.APIFailure), keyResultHandler.GetHistoryJSON)
	}

	return r
}
