package http

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/http/handlers"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/geocoder89/recipehub/internal/identity"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/geocoder89/recipehub/internal/repo/sqlite"
	"github.com/geocoder89/recipehub/internal/uploads"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, sqldb *sql.DB, store *uploads.DiskStore, prom *observability.Prom, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(otelgin.Middleware("recipehub"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// health
	ping := func() error {
		if sqldb == nil {
			return nil
		}

		ctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		return sqldb.PingContext(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/api/health", h.Health)
	r.GET("/api/ready", h.Ready)

	// wire up repositories
	usersRepo := sqlite.NewUsersRepo(sqldb)
	recipesRepo := sqlite.NewRecipesRepo(sqldb)

	// session + identity plumbing
	sessions := auth.NewManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)
	provider := identity.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
	sessionAuth := middlewares.NewSessionAuth(sessions, usersRepo)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, sessions, provider, cfg)

	var recipesStore handlers.RecipesStore = recipesRepo
	if prom != nil {
		recipesStore = sqlite.NewInstrumentedRecipesRepo(recipesRepo, prom)
	}
	recipesHandler := handlers.NewRecipesHandler(recipesStore)
	var uploadObserver handlers.UploadObserver
	if prom != nil {
		uploadObserver = prom
	}
	uploadsHandler := handlers.NewUploadsHandler(store, uploadObserver)

	r.GET("/api/auth/login", authHandler.Login)
	r.GET("/api/auth/callback", authHandler.Callback)
	r.POST("/api/auth/logout", authHandler.Logout)

	authed := r.Group("/api", sessionAuth.RequireUser())
	authed.GET("/me", authHandler.Me)

	recipes := authed.Group("/recipes", middlewares.RequireJSON())
	recipes.GET("", recipesHandler.ListRecipes)
	recipes.POST("", recipesHandler.CreateRecipe)
	recipes.GET("/:id", recipesHandler.GetRecipeById)
	recipes.PUT("/:id", recipesHandler.UpdateRecipe)
	recipes.DELETE("/:id", recipesHandler.DeleteRecipe)

	// multipart, so no RequireJSON here
	authed.POST("/images/upload", uploadsHandler.UploadImage)

	// uploaded files are public by name
	r.Static(uploads.URLPrefix, store.Dir())

	return r
}
