package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"greendrake/storefront/internal/models"
	"greendrake/storefront/internal/services"
	"greendrake/storefront/internal/utils"
)

// RestSubmissionHandler handles the public submission endpoint.
type RestSubmissionHandler struct {
	submissionService services.ISubmissionService
}

// NewRestSubmissionHandler creates a new RestSubmissionHandler.
func NewRestSubmissionHandler(submissionService services.ISubmissionService) *RestSubmissionHandler {
	return &RestSubmissionHandler{submissionService: submissionService}
}

type submissionItemRequest struct {
	CatalogItemID string `json:"catalogItemId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
}

type createSubmissionRequest struct {
	Kind            string                  `json:"kind" binding:"required,oneof=ENQUIRY ORDER"`
	CustomerName    string                  `json:"customerName" binding:"required,min=2,max=100"`
	Email           string                  `json:"email" binding:"required,email"`
	Phone           string                  `json:"phone" binding:"required,min=10,max=20"`
	Notes           string                  `json:"notes" binding:"max=1000"`
	Items           []submissionItemRequest `json:"items" binding:"required,dive"`
	DeliveryAddress string                  `json:"deliveryAddress" binding:"omitempty,max=500"`
}

// CreateSubmission handles POST /v1/submission.
func (h *RestSubmissionHandler) CreateSubmission(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	items := make([]models.SubmissionItem, 0, len(req.Items))
	for _, it := range req.Items {
		id, err := utils.ParseSixID(it.CatalogItemID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid catalog item ID: %s", it.CatalogItemID)})
			return
		}
		items = append(items, models.SubmissionItem{CatalogItemID: id, Quantity: it.Quantity})
	}

	submission, err := h.submissionService.CreateSubmission(c.Request.Context(), services.CreateSubmissionInput{
		Kind:            models.SubmissionKind(req.Kind),
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		Notes:           req.Notes,
		Items:           items,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"submissionId": submission.ID.String(),
		"kind":         submission.Kind,
		"message":      fmt.Sprintf("Your %s has been submitted successfully", strings.ToLower(string(submission.Kind))),
	})
}
