package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greendrake/storefront/internal/models"
	"greendrake/storefront/internal/services"
	"greendrake/storefront/internal/utils"
)

// RestAdminSubmissionHandler handles the admin submission endpoints.
type RestAdminSubmissionHandler struct {
	submissionService services.ISubmissionService
}

// NewRestAdminSubmissionHandler creates a new RestAdminSubmissionHandler.
func NewRestAdminSubmissionHandler(submissionService services.ISubmissionService) *RestAdminSubmissionHandler {
	return &RestAdminSubmissionHandler{submissionService: submissionService}
}

// ListSubmissions handles GET /v1/admin/submissions with optional kind and
// status filters.
func (h *RestAdminSubmissionHandler) ListSubmissions(c *gin.Context) {
	var filter services.SubmissionFilter

	if v := c.Query("kind"); v != "" {
		kind := models.SubmissionKind(v)
		if !kind.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid kind filter"})
			return
		}
		filter.Kind = &kind
	}
	if v := c.Query("status"); v != "" {
		status := models.OrderStatus(v)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		filter.Status = &status
	}

	submissions, err := h.submissionService.GetSubmissions(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// GetSubmission handles GET /v1/admin/submissions/:id.
func (h *RestAdminSubmissionHandler) GetSubmission(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	detail, err := h.submissionService.GetSubmissionByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PLACED CONFIRMED PROCESSING SHIPPED COMPLETED CANCELLED"`
}

// UpdateOrderStatus handles PUT /v1/admin/submissions/:id/status.
func (h *RestAdminSubmissionHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	order, err := h.submissionService.UpdateOrderStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ExportSubmissions handles GET /v1/admin/submissions/export.
func (h *RestAdminSubmissionHandler) ExportSubmissions(c *gin.Context) {
	csvData, err := h.submissionService.ExportCSV(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=submissions.csv")
	c.Data(http.StatusOK, "text/csv", []byte(csvData))
}
