package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"stride/config"
	"stride/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		availability := api.Group("/availability")
		availability.Use(h.authMiddleware())
		{
			instructor := availability.Group("/", h.instructorMiddleware())
			{
				instructor.GET("/", h.getAvailability)
				instructor.PUT("/", h.saveAvailability)
				instructor.POST("/preview", h.previewImpact)
			}

			admin := availability.Group("/", h.adminMiddleware())
			{
				admin.POST("/:instructorId/edit-window", h.grantEditWindow)
			}
		}

		facility := api.Group("/facility")
		facility.Use(h.authMiddleware())
		{
			facility.GET("/hours", h.getFacilityHours)
			facility.GET("/activity-types", h.getActivityTypes)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
