package routes

import (
	"database/sql"

	"github.com/olibranch/analysis-api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAnalysisRoutes registers the analysis pipeline routes.
func SetupAnalysisRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := handlers.NewAnalysisHandler(db)

	// Inline analysis: everything supplied in the request body
	rg.POST("/analysis/run", h.RunAnalysis)

	// Stored-input flow: upload inputs, then analyze by business
	rg.POST("/businesses/:id/assessment", h.SubmitAssessment)
	rg.POST("/businesses/:id/accounts", h.UploadAccounts)
	rg.POST("/businesses/:id/transactions", h.UploadTransactions)
	rg.POST("/businesses/:id/analyze", h.AnalyzeBusiness)
}
