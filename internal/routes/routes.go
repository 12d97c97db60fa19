package routes

import (
	"time"

	"go-barcode-generator/internal/handlers"
	"go-barcode-generator/internal/logger"
	"go-barcode-generator/internal/middleware"
	"go-barcode-generator/internal/reagent"
	"go-barcode-generator/internal/repository"
	"go-barcode-generator/internal/scan"
	"go-barcode-generator/internal/services"

	"github.com/gin-gonic/gin"
)

// maxBodySize bounds verify uploads and batch requests.
const maxBodySize = 10 << 20

// Dependencies are the collaborators the HTTP API is built from. History
// may be nil. HealthChecks are reported by /health, keyed by name.
type Dependencies struct {
	Barcodes     *services.BarcodeService
	Projects     *services.ProjectService
	Exports      *services.ExportService
	Verifier     *scan.Verifier
	Catalog      *reagent.Catalog
	History      repository.HistoryStore
	Logger       *logger.StructuredLogger
	APIKeyHash   string
	HealthChecks map[string]func() error
}

// NewRouter builds the gin engine with all routes.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(deps.Logger.LoggingMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())

	monitor := middleware.NewPerformanceMonitor(2 * time.Second)
	for name, check := range deps.HealthChecks {
		monitor.AddCheck(name, check)
	}
	r.Use(monitor.PerformanceMiddleware())
	r.GET("/health", monitor.HealthHandler)

	SetupAPIRoutes(r, deps)
	return r
}

// SetupAPIRoutes registers the /api group.
func SetupAPIRoutes(r *gin.Engine, deps Dependencies) {
	barcodeHandler := handlers.NewBarcodeHandler(deps.Barcodes, deps.Verifier, deps.History, deps.Logger)
	lotIDHandler := handlers.NewLotIDHandler(deps.Barcodes)
	projectHandler := handlers.NewProjectHandler(deps.Catalog, deps.Projects, deps.Exports, deps.History, deps.Logger)
	historyHandler := handlers.NewHistoryHandler(deps.History)

	api := r.Group("/api")
	api.Use(middleware.APIKeyAuth(deps.APIKeyHash, deps.Logger))
	api.Use(middleware.RequestSizeLimitMiddleware(maxBodySize))
	{
		barcodes := api.Group("/barcodes")
		{
			barcodes.GET("/formats", barcodeHandler.Formats)
			barcodes.POST("/render", barcodeHandler.Render)
			barcodes.POST("/verify", barcodeHandler.Verify)
		}

		lot := api.Group("/lotid")
		{
			lot.GET("/encode", lotIDHandler.Encode)
			lot.GET("/decode", lotIDHandler.Decode)
			lot.GET("/png", lotIDHandler.PNG)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.List)
			projects.GET("/:name/defaults", projectHandler.Defaults)
			projects.POST("/:name/generate", projectHandler.Generate)
		}

		api.GET("/history", historyHandler.Recent)
	}
}
