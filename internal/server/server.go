package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/handler"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/syncer"
)

type Server struct {
	router       *gin.Engine
	db           *sqlx.DB
	orchestrator *syncer.Orchestrator
	log          *zap.Logger
}

func NewServer(db *sqlx.DB, orchestrator *syncer.Orchestrator, log *zap.Logger) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())

	s := &Server{
		router:       router,
		db:           db,
		orchestrator: orchestrator,
		log:          log,
	}

	// Setup routes
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	legalCaseRepo := repository.NewLegalCaseRepository(s.db, s.log)
	updateRepo := repository.NewRegulatoryUpdateRepository(s.db, s.log)
	sourceRepo := repository.NewDataSourceRepository(s.db, s.log)

	legalCaseHandler := handler.NewLegalCaseHandler(legalCaseRepo, s.log)
	updateHandler := handler.NewRegulatoryUpdateHandler(updateRepo, s.log)
	sourceHandler := handler.NewDataSourceHandler(sourceRepo, s.log)
	syncHandler := handler.NewSyncHandler(s.orchestrator, sourceRepo, updateRepo, s.log)
	dashboardHandler := handler.NewDashboardHandler(legalCaseRepo, updateRepo, sourceRepo, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := s.router.Group("/api")
	{
		api.GET("/dashboard/stats", dashboardHandler.GetDashboardStats)
		api.GET("/admin/health", dashboardHandler.GetHealth)

		api.GET("/legal-cases", legalCaseHandler.GetAllLegalCases)
		api.POST("/legal-cases", legalCaseHandler.CreateLegalCase)
		api.GET("/legal-cases/jurisdiction/:jurisdiction", legalCaseHandler.GetLegalCasesByJurisdiction)
		api.GET("/legal-cases/:id", legalCaseHandler.GetLegalCaseByID)

		api.GET("/regulatory-updates", updateHandler.GetAllRegulatoryUpdates)
		api.POST("/regulatory-updates", updateHandler.CreateRegulatoryUpdate)
		api.GET("/regulatory-updates/recent", updateHandler.GetRecentRegulatoryUpdates)
		api.GET("/regulatory-updates/:id", updateHandler.GetRegulatoryUpdateByID)

		api.GET("/data-sources", sourceHandler.GetAllDataSources)
		api.GET("/data-sources/active", sourceHandler.GetActiveDataSources)
		api.POST("/data-sources", sourceHandler.CreateDataSource)
		api.PATCH("/data-sources/:id", sourceHandler.UpdateDataSource)
		api.POST("/data-sources/:id/sync", syncHandler.SyncDataSource)

		api.POST("/sync/all", syncHandler.SyncAll)
		api.GET("/sync/stats", syncHandler.GetSyncStats)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (s *Server) Run(addr string) {
	s.log.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}
