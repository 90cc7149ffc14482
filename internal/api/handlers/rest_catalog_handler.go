package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/services"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/storage"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/tasks"
)

// RestCatalogHandler handles REST requests for the resource catalog. One
// handler serves all four kinds; routes bind the kind via closures.
type RestCatalogHandler struct {
	catalogService services.ICatalogService
	storageService storage.IS3Storage
	taskClient     IAsynqClient
}

// NewRestCatalogHandler creates a new RestCatalogHandler.
func NewRestCatalogHandler(
	catalogService services.ICatalogService,
	storageService storage.IS3Storage,
	taskClient IAsynqClient,
) *RestCatalogHandler {
	return &RestCatalogHandler{
		catalogService: catalogService,
		storageService: storageService,
		taskClient:     taskClient,
	}
}

// resourceRequest is the create payload for a catalog resource. Kind-specific
// fields are optional; the catalog stores whatever applies.
type resourceRequest struct {
	Name        string   `json:"name" binding:"required"`
	Type        string   `json:"type"`
	LicenseType string   `json:"licenseType"`
	Plate       string   `json:"plate"`
	Capacity    int      `json:"capacity"`
	Languages   []string `json:"languages"`
	Region      string   `json:"region"`
	Description string   `json:"description"`
	PricePerDay float64  `json:"pricePerDay"`
	Rating      float64  `json:"rating"`
}

// updateResourceRequest uses pointers so only submitted fields are touched.
type updateResourceRequest struct {
	Name        *string   `json:"name"`
	Type        *string   `json:"type"`
	LicenseType *string   `json:"licenseType"`
	Plate       *string   `json:"plate"`
	Capacity    *int      `json:"capacity"`
	Languages   *[]string `json:"languages"`
	Region      *string   `json:"region"`
	Description *string   `json:"description"`
	PricePerDay *float64  `json:"pricePerDay"`
	Rating      *float64  `json:"rating"`
}

// ListResources handles GET /v1/{kind}.
func (h *RestCatalogHandler) ListResources(kind models.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit <= 0 || limit > 200 {
			limit = 50
		}

		resources, err := h.catalogService.ListResources(c.Request.Context(), kind, limit)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list resources"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resources})
	}
}

// GetResource handles GET /v1/{kind}/:id.
func (h *RestCatalogHandler) GetResource(kind models.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID format"})
			return
		}

		res, err := h.catalogService.FindResourceByID(c.Request.Context(), kind, id)
		if err != nil {
			if services.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			} else {
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve resource"})
			}
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// CreateResource handles POST /v1/admin/{kind}.
func (h *RestCatalogHandler) CreateResource(kind models.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		res := &models.Resource{
			Name:        req.Name,
			Type:        req.Type,
			LicenseType: req.LicenseType,
			Plate:       req.Plate,
			Capacity:    req.Capacity,
			Languages:   req.Languages,
			Region:      req.Region,
			Description: req.Description,
			PricePerDay: req.PricePerDay,
			Rating:      req.Rating,
		}

		created, err := h.catalogService.CreateResource(c.Request.Context(), kind, res)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// UpdateResource handles PUT /v1/admin/{kind}/:id.
func (h *RestCatalogHandler) UpdateResource(kind models.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID format"})
			return
		}

		var req updateResourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Type != nil {
			updates["type"] = *req.Type
		}
		if req.LicenseType != nil {
			updates["license_type"] = *req.LicenseType
		}
		if req.Plate != nil {
			updates["plate"] = *req.Plate
		}
		if req.Capacity != nil {
			updates["capacity"] = *req.Capacity
		}
		if req.Languages != nil {
			updates["languages"] = *req.Languages
		}
		if req.Region != nil {
			updates["region"] = *req.Region
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.PricePerDay != nil {
			updates["price_per_day"] = *req.PricePerDay
		}
		if req.Rating != nil {
			updates["rating"] = *req.Rating
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		updated, err := h.catalogService.UpdateResource(c.Request.Context(), kind, id, updates)
		if err != nil {
			if services.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			} else {
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update resource"})
			}
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DeleteResource handles DELETE /v1/admin/{kind}/:id. Existing inquiries keep
// their reference; reads degrade to the raw id once the record is gone.
func (h *RestCatalogHandler) DeleteResource(kind models.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID format"})
			return
		}

		if err := h.catalogService.DeleteResource(c.Request.Context(), kind, id); err != nil {
			if services.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			} else {
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete resource"})
			}
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// presignPhotoRequest asks for an upload slot for a catalog photo.
type presignPhotoRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// PresignPhoto handles POST /v1/admin/{kind}/:id/photos/presign. The client
// uploads directly to S3 with the returned URL, then confirms with the key.
func (h *RestCatalogHandler) PresignPhoto(kind models.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID format"})
			return
		}

		var req presignPhotoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		// The resource must exist before we hand out an upload slot.
		if _, err := h.catalogService.FindResourceByID(c.Request.Context(), kind, id); err != nil {
			if services.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			} else {
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve resource"})
			}
			return
		}

		url, key, err := h.storageService.GeneratePresignedPutURL(c.Request.Context(), kind, id.Hex(), req.Filename, req.ContentType)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URL"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"uploadUrl": url, "key": key})
	}
}

// confirmPhotoRequest confirms a completed upload so processing can start.
type confirmPhotoRequest struct {
	Key string `json:"key" binding:"required"`
}

// ConfirmPhoto handles POST /v1/admin/{kind}/:id/photos. It enqueues the
// normalization task; the photo appears on the resource once the worker is
// done.
func (h *RestCatalogHandler) ConfirmPhoto(kind models.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID format"})
			return
		}

		var req confirmPhotoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		task, err := tasks.NewPhotoProcessTask(req.Key, kind, id)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build processing task"})
			return
		}
		if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task); err != nil {
			log.Printf("ERROR: failed to enqueue photo processing for %s %s: %v", kind, id.Hex(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue photo processing"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"status": "processing"})
	}
}
