// Package api exposes the planner over HTTP.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weekmenu/internal/auth"
	"weekmenu/internal/clock"
	"weekmenu/internal/config"
	"weekmenu/internal/history"
	"weekmenu/internal/images"
	"weekmenu/internal/importer"
	"weekmenu/internal/llm"
	"weekmenu/internal/metrics"
	"weekmenu/internal/recipe"
	"weekmenu/internal/suggestion"
	"weekmenu/internal/weather"
	"weekmenu/internal/weekplan"
)

// Server bundles the services the handlers need.
type Server struct {
	cfg         *config.Config
	logger      *zap.Logger
	recipes     *recipe.Repository
	historyRepo *history.Repository
	engine      *suggestion.Engine
	resolver    *weekplan.Resolver
	provider    weather.Provider
	clk         clock.Clock
	auth        *auth.Service
	scraper     *importer.Scraper
	captions    *importer.CaptionParser
	imageGen    llm.ImageGenerator
	imageStore  *images.Store
	usage       *metrics.Store
}

// Deps are the constructor inputs for Server. CaptionParser and ImageGen are
// nil when no LLM is configured; their endpoints then report upstream
// unavailable.
type Deps struct {
	Config        *config.Config
	Logger        *zap.Logger
	Recipes       *recipe.Repository
	History       *history.Repository
	Engine        *suggestion.Engine
	Resolver      *weekplan.Resolver
	Weather       weather.Provider
	Clock         clock.Clock
	Auth          *auth.Service
	Scraper       *importer.Scraper
	CaptionParser *importer.CaptionParser
	ImageGen      llm.ImageGenerator
	ImageStore    *images.Store
	Usage         *metrics.Store
}

// NewServer creates a Server.
func NewServer(d Deps) *Server {
	return &Server{
		cfg:         d.Config,
		logger:      d.Logger,
		recipes:     d.Recipes,
		historyRepo: d.History,
		engine:      d.Engine,
		resolver:    d.Resolver,
		provider:    d.Weather,
		clk:         d.Clock,
		auth:        d.Auth,
		scraper:     d.Scraper,
		captions:    d.CaptionParser,
		imageGen:    d.ImageGen,
		imageStore:  d.ImageStore,
		usage:       d.Usage,
	}
}

// Router builds the gin engine with all middleware and routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(s.recovery())
	router.Use(s.requestLogger())
	router.Use(requestid.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", s.handleHealth)
	router.POST("/api/login", s.handleLogin)
	router.Static("/images", s.imageStore.BasePath())

	api := router.Group("/api")
	api.Use(s.requireAuth())
	{
		api.GET("/recipes", s.handleListRecipes)
		api.POST("/recipes", s.handleCreateRecipe)
		api.GET("/recipes/:id", s.handleGetRecipe)
		api.PUT("/recipes/:id", s.handleUpdateRecipe)
		api.DELETE("/recipes/:id", s.handleDeleteRecipe)
		api.POST("/recipes/:id/image", s.handleGenerateImage)
		api.POST("/recipes/import", s.handleImportURL)
		api.POST("/recipes/import/caption", s.handleImportCaption)

		api.GET("/suggestion/today", s.handleSuggestionToday)
		api.POST("/suggestion/:id/accept", s.handleAcceptSuggestion)
		api.POST("/suggestion/:id/reject", s.handleRejectSuggestion)
		api.POST("/suggestion/clear", s.handleClearSuggestion)

		api.GET("/week", s.handleWeek)
		api.PUT("/week/:date", s.handleSetDay)
		api.DELETE("/week/:date", s.handleClearDay)
		api.POST("/week/:date/regenerate", s.handleRegenerateDay)

		api.GET("/shopping-list", s.handleShoppingList)

		api.GET("/history", s.handleListHistory)
		api.POST("/history", s.handleLogMeal)
		api.DELETE("/history/:id", s.handleDeleteHistory)

		api.GET("/weather", s.handleWeather)
		api.GET("/metrics/usage", s.handleUsage)
	}

	return router
}
