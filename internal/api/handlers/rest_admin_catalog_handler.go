package handlers

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"greendrake/storefront/internal/services"
	"greendrake/storefront/internal/storage"
	"greendrake/storefront/internal/utils"
)

// ImageTaskEnqueuer enqueues image normalization work after an upload.
// Implemented by the tasks queue client.
type ImageTaskEnqueuer interface {
	EnqueueImageProcess(ctx context.Context, s3Key, catalogItemID string) error
}

// RestAdminCatalogHandler handles the admin catalog endpoints.
type RestAdminCatalogHandler struct {
	catalogService services.ICatalogService
	storageService storage.IS3Storage
	taskQueue      ImageTaskEnqueuer
}

// NewRestAdminCatalogHandler creates a new RestAdminCatalogHandler.
func NewRestAdminCatalogHandler(catalogService services.ICatalogService, storageService storage.IS3Storage, taskQueue ImageTaskEnqueuer) *RestAdminCatalogHandler {
	return &RestAdminCatalogHandler{
		catalogService: catalogService,
		storageService: storageService,
		taskQueue:      taskQueue,
	}
}

type catalogItemRequest struct {
	Name           string                 `json:"name" binding:"required,min=2,max=200"`
	Category       string                 `json:"category" binding:"required"`
	Description    string                 `json:"description" binding:"required"`
	Specifications map[string]interface{} `json:"specifications"`
	Applications   []string               `json:"applications"`
	Images         []string               `json:"images"`
}

// ListAllItems handles GET /v1/admin/catalog, including deactivated items.
func (h *RestAdminCatalogHandler) ListAllItems(c *gin.Context) {
	items, err := h.catalogService.GetAllItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateItem handles POST /v1/admin/catalog.
func (h *RestAdminCatalogHandler) CreateItem(c *gin.Context) {
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), services.CatalogItemInput{
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		Specifications: req.Specifications,
		Applications:   req.Applications,
		Images:         req.Images,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateItem handles PUT /v1/admin/catalog/:id with a partial update body.
func (h *RestAdminCatalogHandler) UpdateItem(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog item ID"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem handles DELETE /v1/admin/catalog/:id (soft deactivate).
func (h *RestAdminCatalogHandler) DeleteItem(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog item ID"})
		return
	}

	if err := h.catalogService.DeactivateItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Catalog item deactivated"})
}

type presignImageRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// PresignImageUpload handles POST /v1/admin/catalog/:id/images/presign. The
// admin UI uploads directly to S3 with the returned URL, then confirms the
// upload to trigger processing.
func (h *RestAdminCatalogHandler) PresignImageUpload(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog item ID"})
		return
	}

	var req presignImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	if _, err := h.catalogService.GetItemByID(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	url, key, err := h.storageService.GeneratePresignedPutURL(c.Request.Context(), id.String(), filepath.Base(req.Filename), req.ContentType)
	if err != nil {
		log.Printf("Failed to presign catalog image upload for %s: %v", id.String(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to presign upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "key": key})
}

type confirmImageRequest struct {
	Key string `json:"key" binding:"required"`
}

// ConfirmImageUpload handles POST /v1/admin/catalog/:id/images/confirm,
// enqueueing normalization for an object uploaded via a presigned URL.
func (h *RestAdminCatalogHandler) ConfirmImageUpload(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog item ID"})
		return
	}

	var req confirmImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	if err := h.taskQueue.EnqueueImageProcess(c.Request.Context(), req.Key, id.String()); err != nil {
		log.Printf("Failed to enqueue image processing for %s: %v", req.Key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule image processing"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"key": req.Key, "message": "Image processing scheduled"})
}

// UploadImage handles POST /v1/admin/catalog/:id/images: stores the uploaded
// file in S3 and enqueues a normalization task that attaches the image to the
// item once processed.
func (h *RestAdminCatalogHandler) UploadImage(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog item ID"})
		return
	}

	// Verify the item exists before accepting the upload.
	if _, err := h.catalogService.GetItemByID(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable image file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := h.storageService.NewImageKey(id.String(), filepath.Base(fileHeader.Filename))
	if err := h.storageService.UploadObject(c.Request.Context(), key, file, contentType); err != nil {
		log.Printf("Failed to upload catalog image %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	if err := h.taskQueue.EnqueueImageProcess(c.Request.Context(), key, id.String()); err != nil {
		log.Printf("Failed to enqueue image processing for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule image processing"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"key": key, "message": "Image uploaded, processing scheduled"})
}
