package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/olibranch/analysis-api/models"
	"github.com/olibranch/analysis-api/services"
	"github.com/olibranch/analysis-api/utils"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler is the HTTP boundary for the leak detection and scoring
// pipeline. It converts wire shapes into the canonical records the core
// runs on and never leaks engine internals into responses.
type AnalysisHandler struct {
	Service *services.AnalysisService
}

func NewAnalysisHandler(db *sql.DB) *AnalysisHandler {
	return &AnalysisHandler{
		Service: services.NewAnalysisService(db),
	}
}

// RunAnalysisRequest is the inline analysis payload: everything the core
// needs, supplied in one call, nothing read from storage.
type RunAnalysisRequest struct {
	Transactions []models.RawTransaction `json:"transactions"`
	Profile      models.BusinessProfile  `json:"profile"`
	Accounts     []models.BankAccount    `json:"accounts"`
	WindowDays   int                     `json:"window_days"`
}

// RunAnalysis handles POST /analysis/run.
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	var req RunAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.WindowDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_days must be positive"})
		return
	}

	report, err := h.Service.Run(req.Transactions, req.Profile, req.Accounts, req.WindowDays)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	utils.SafeLogf("Inline analysis %s: %d transactions, %d leaks", report.AnalysisID, len(req.Transactions), len(report.Findings))
	c.JSON(http.StatusOK, report)
}

// AnalyzeBusiness handles POST /businesses/:id/analyze. Inputs come from
// storage; the report itself is returned, not persisted.
func (h *AnalysisHandler) AnalyzeBusiness(c *gin.Context) {
	businessID := c.Param("id")

	var req struct {
		WindowDays int `json:"window_days"`
	}
	// Body is optional; default window applies when absent.
	_ = c.ShouldBindJSON(&req)
	if req.WindowDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_days must be positive"})
		return
	}

	report, err := h.Service.AnalyzeBusiness(c.Request.Context(), businessID, req.WindowDays)
	if err != nil {
		utils.SafeLogf("Analysis failed for business %s: %v", businessID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	utils.LogAnalysisRun(businessID, len(report.Findings),
		report.Scores.Mismatch, report.Scores.FinancialHealth)
	c.JSON(http.StatusOK, report)
}

// SubmitAssessment handles POST /businesses/:id/assessment.
func (h *AnalysisHandler) SubmitAssessment(c *gin.Context) {
	businessID := c.Param("id")

	var profile models.BusinessProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.SaveAssessment(c.Request.Context(), businessID, profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save assessment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assessment saved"})
}

// UploadAccounts handles POST /businesses/:id/accounts.
func (h *AnalysisHandler) UploadAccounts(c *gin.Context) {
	businessID := c.Param("id")

	var accounts []models.BankAccount
	if err := c.ShouldBindJSON(&accounts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.SaveAccounts(c.Request.Context(), businessID, accounts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save accounts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Accounts saved", "count": len(accounts)})
}

// UploadTransactions handles POST /businesses/:id/transactions.
func (h *AnalysisHandler) UploadTransactions(c *gin.Context) {
	businessID := c.Param("id")

	var txns []models.RawTransaction
	if err := c.ShouldBindJSON(&txns); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.SaveTransactions(c.Request.Context(), businessID, txns); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transactions saved", "count": len(txns)})
}
