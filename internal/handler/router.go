package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies holds everything the router wires to routes.
type Dependencies struct {
	Locations *LocationHandler
	Weather   *WeatherHandler
	Health    *HealthHandler
	Logger    zerolog.Logger
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(RequestID())
	r.Use(RequestLogger(deps.Logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:   []string{requestIDHeader},
	}))

	r.GET("/health", deps.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		locations := api.Group("/locations")
		{
			locations.GET("", deps.Locations.List)
			locations.GET("/search", deps.Locations.Search)
			locations.POST("", deps.Locations.Create)
			locations.GET("/:id", deps.Locations.Get)
			locations.DELETE("/:id", deps.Locations.Delete)
			locations.GET("/:id/overview", deps.Locations.Overview)
		}

		weather := api.Group("/weather")
		{
			weather.GET("/realtime/:id", deps.Weather.Realtime)
			weather.GET("/daily/:id", deps.Weather.Daily)
			weather.GET("/hourly/:id", deps.Weather.Hourly)
			weather.POST("/update/:id", deps.Weather.Update)
			weather.POST("/update-all", deps.Weather.UpdateAll)
		}
	}

	return r
}
