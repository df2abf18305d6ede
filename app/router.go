// Package app wires the HTTP routes to their handlers
package app

import (
	"bitwise74/recipe-api/app/recipe"
	"bitwise74/recipe-api/app/root"
	"bitwise74/recipe-api/app/user"
	"bitwise74/recipe-api/config"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/pkg/middleware"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const jsonBodyLimit = 1 << 20

// NewRouter builds the engine. limiter may be nil to disable rate limiting.
func NewRouter(cfg *config.Config, d *internal.Deps, limiter middleware.Limiter) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.Host.CORS,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = d.MaxImageSize

	router.NoMethod(methodNotAllowed)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": c.GetString("requestID"),
		})
	})

	if cfg.Storage.Type == "local" {
		// GET /media/*key		-> Serves uploaded images
		router.Static("/media", cfg.Storage.LocalPath)
	}

	auth := middleware.NewAuthMiddleware(d.Tokens)
	turnstile := middleware.NewTurnstileMiddleware(middleware.TurnstileConfig{
		Enabled: cfg.Cloudflare.Turnstile.Enabled,
		Secret:  cfg.Cloudflare.Turnstile.SecretToken,
	})
	jsonLimit := middleware.BodySizeLimiter(jsonBodyLimit)
	// Leave room for the multipart framing around the image
	uploadLimit := middleware.BodySizeLimiter(d.MaxImageSize + 1<<20)

	m := router.Group("/api")
	if limiter != nil {
		m.Use(middleware.RateLimiterMiddleware(limiter))
	}
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates an auth token
		m.GET("/validate", auth, root.Validate)
	}

	u := m.Group("/user", jsonLimit)
	{
		// POST /api/user/create	-> Registers a new user
		u.POST("/create", turnstile, func(c *gin.Context) { user.UserCreate(c, d) })

		// POST /api/user/token		-> Exchanges credentials for an auth token
		u.POST("/token", func(c *gin.Context) { user.UserToken(c, d) })
	}

	me := u.Group("/me", auth)
	{
		// GET /api/user/me		-> Returns the authenticated user
		me.GET("", user.UserMe)

		// PATCH /api/user/me		-> Updates some fields of the authenticated user
		me.PATCH("", func(c *gin.Context) { user.UserMeUpdate(c, d, true) })

		// PUT /api/user/me		-> Replaces the profile of the authenticated user
		me.PUT("", func(c *gin.Context) { user.UserMeUpdate(c, d, false) })

		// POST /api/user/me		-> Not allowed, answered here so auth runs first
		me.POST("", methodNotAllowed)
	}

	r := m.Group("/recipe/recipes", auth)
	{
		// GET /api/recipe/recipes		-> Lists the caller's recipes
		r.GET("", func(c *gin.Context) { recipe.RecipeList(c, d) })

		// POST /api/recipe/recipes		-> Creates a recipe owned by the caller
		r.POST("", jsonLimit, func(c *gin.Context) { recipe.RecipeCreate(c, d) })

		// GET /api/recipe/recipes/:id		-> Returns one of the caller's recipes
		r.GET("/:id", func(c *gin.Context) { recipe.RecipeFetch(c, d) })

		// PATCH /api/recipe/recipes/:id	-> Updates some fields of a recipe
		r.PATCH("/:id", jsonLimit, func(c *gin.Context) { recipe.RecipeUpdate(c, d, true) })

		// PUT /api/recipe/recipes/:id		-> Replaces a recipe
		r.PUT("/:id", jsonLimit, func(c *gin.Context) { recipe.RecipeUpdate(c, d, false) })

		// POST /api/recipe/recipes/:id/upload-image	-> Sets the image of a recipe
		r.POST("/:id/upload-image", uploadLimit, func(c *gin.Context) { recipe.RecipeUploadImage(c, d) })
	}

	return router
}

func methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"error":     "Method \"" + c.Request.Method + "\" not allowed",
		"requestID": c.GetString("requestID"),
	})
}
