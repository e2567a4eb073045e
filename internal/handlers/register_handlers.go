package handlers

import (
	"net/http"

	"github.com/SscSPs/general_ledger/cmd/docs"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	SetupValidator()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the workplace-scoped /api/v1 group
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterWorkplaceRoutes(v1.Group("/workplaces/:workplace_id"), services)
}

// RegisterWorkplaceRoutes registers every ledger route on a group carrying the workplace_id param.
func RegisterWorkplaceRoutes(wp *gin.RouterGroup, services *portssvc.ServiceContainer) {
	RegisterAccountRoutes(wp, services.Account)
	RegisterPeriodRoutes(wp, services.Period)
	RegisterJournalRoutes(wp, services.Journal)
	RegisterLedgerRoutes(wp, services.Ledger)
	RegisterTrialBalanceRoutes(wp, services.TrialBalance)
	RegisterPeriodCloseRoutes(wp, services.PeriodClose)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
