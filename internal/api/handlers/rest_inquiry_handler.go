package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/apperrors"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/api/middleware"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/services"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/tasks"
)

// IAsynqClient defines the interface for the Asynq client methods used by
// handlers. This allows easier mocking than using the concrete asynq.Client.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RestInquiryHandler handles REST requests for custom trip inquiries.
type RestInquiryHandler struct {
	cfg            *config.Config
	inquiryService services.IInquiryService
	resolver       services.IResourceResolver
	taskClient     IAsynqClient
}

// NewRestInquiryHandler creates a new RestInquiryHandler.
func NewRestInquiryHandler(
	cfg *config.Config,
	inquiryService services.IInquiryService,
	resolver services.IResourceResolver,
	taskClient IAsynqClient,
) *RestInquiryHandler {
	return &RestInquiryHandler{
		cfg:            cfg,
		inquiryService: inquiryService,
		resolver:       resolver,
		taskClient:     taskClient,
	}
}

// identityFromContext reads what the auth middleware stored. An absent or
// unparseable user ID means an anonymous caller.
func identityFromContext(c *gin.Context) services.Identity {
	ident := services.Identity{}
	if v, exists := c.Get(middleware.ContextKeyUserID); exists {
		if hex, ok := v.(string); ok {
			if id, err := primitive.ObjectIDFromHex(hex); err == nil {
				ident.UserID = &id
			}
		}
	}
	if v, exists := c.Get(middleware.ContextKeyIsAdmin); exists {
		if isAdmin, ok := v.(bool); ok {
			ident.IsAdmin = isAdmin
		}
	}
	return ident
}

// respondError translates a service error into the HTTP response. Validation
// errors carry their per-field messages.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		c.JSON(status, gin.H{"error": "Validation failed", "fields": verr.Fields})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// itineraryItemRequest is one submitted itinerary entry. The place arrives as
// a string so a malformed id can be reported per-field instead of failing the
// whole JSON bind. Any submitted order value is ignored.
type itineraryItemRequest struct {
	Place     string `json:"place"`
	Day       int    `json:"day"`
	TimeOfDay string `json:"timeOfDay"`
	Nights    int    `json:"nights"`
}

// preferencesRequest carries the optional hotel tier and resource selections.
type preferencesRequest struct {
	HotelTier *models.HotelTier `json:"hotelTier"`
	services.RawResourceRefs
}

// createInquiryRequest is the submission payload for POST /v1/inquiries.
type createInquiryRequest struct {
	ContactInfo            models.ContactInfo          `json:"contactInfo"`
	TripDetails            models.TripDetails          `json:"tripDetails"`
	Itinerary              []itineraryItemRequest      `json:"itinerary"`
	Preferences            *preferencesRequest         `json:"preferences"`
	CostBreakdown          services.CostBreakdownInput `json:"costBreakdown"`
	AdditionalRequirements string                      `json:"additionalRequirements"`
}

// CreateInquiry handles POST /v1/inquiries. Anonymous submissions are allowed;
// when the optional auth middleware established an identity the inquiry is
// attributed to that user.
func (h *RestInquiryHandler) CreateInquiry(c *gin.Context) {
	var req createInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	// Itinerary place ids are hard references and must parse, unlike the
	// preference selections which are sanitized fail-open.
	verr := apperrors.NewValidation()
	itinerary := make([]models.ItineraryItem, len(req.Itinerary))
	for i, item := range req.Itinerary {
		placeID, err := primitive.ObjectIDFromHex(item.Place)
		if err != nil {
			verr.Add(fmt.Sprintf("itinerary[%d].place", i), "invalid place id")
			continue
		}
		itinerary[i] = models.ItineraryItem{
			PlaceID:   placeID,
			Day:       item.Day,
			TimeOfDay: models.TimeOfDay(item.TimeOfDay),
			Nights:    item.Nights,
		}
	}
	if verr.HasErrors() {
		respondError(c, verr)
		return
	}

	input := services.CreateInquiryInput{
		ContactInfo:            req.ContactInfo,
		TripDetails:            req.TripDetails,
		Itinerary:              itinerary,
		Cost:                   req.CostBreakdown,
		AdditionalRequirements: req.AdditionalRequirements,
	}
	if req.Preferences != nil {
		input.HotelTier = req.Preferences.HotelTier
		input.ResourceRefs = req.Preferences.RawResourceRefs
	}

	ident := identityFromContext(c)
	inq, err := h.inquiryService.CreateInquiry(c.Request.Context(), input, ident.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Notification delivery is best-effort. The inquiry is already stored;
	// a Redis outage must not turn the response into an error.
	if task, err := tasks.NewInquiryReceivedTask(h.cfg, inq); err != nil {
		log.Printf("WARN: failed to build inquiry notification task for %s: %v", inq.ID.Hex(), err)
	} else if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task); err != nil {
		log.Printf("WARN: failed to enqueue inquiry notification for %s: %v", inq.ID.Hex(), err)
	}

	c.JSON(http.StatusCreated, h.resolver.Enrich(c.Request.Context(), inq))
}

// ListInquiries handles GET /v1/inquiries with page, limit and status query
// parameters. Admins see all inquiries; everyone else their own.
func (h *RestInquiryHandler) ListInquiries(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}

	var status *models.InquiryStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.InquiryStatus(statusStr)
		status = &s
	}

	ident := identityFromContext(c)
	inquiries, pagination, err := h.inquiryService.ListInquiries(c.Request.Context(), ident, status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       h.resolver.EnrichAll(c.Request.Context(), inquiries),
		"pagination": pagination,
	})
}

// GetInquiry handles GET /v1/inquiries/:id.
func (h *RestInquiryHandler) GetInquiry(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inquiry ID format"})
		return
	}

	ident := identityFromContext(c)
	inq, err := h.inquiryService.FindInquiryByID(c.Request.Context(), id, ident)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.resolver.Enrich(c.Request.Context(), inq))
}

// updateStatusRequest is the payload for PUT /v1/admin/inquiries/:id/status.
type updateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"adminNotes"`
}

// UpdateInquiryStatus handles PUT /v1/admin/inquiries/:id/status.
func (h *RestInquiryHandler) UpdateInquiryStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inquiry ID format"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	inq, err := h.inquiryService.UpdateInquiryStatus(c.Request.Context(), id, models.InquiryStatus(req.Status), req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.resolver.Enrich(c.Request.Context(), inq))
}

// addQuoteRequest is the payload for PUT /v1/admin/inquiries/:id/quote.
// FinalPrice is a pointer so an omitted price is rejected instead of read as
// a free quote.
type addQuoteRequest struct {
	FinalPrice *float64   `json:"finalPrice"`
	ValidUntil *time.Time `json:"validUntil"`
	Terms      string     `json:"terms"`
}

// AddInquiryQuote handles PUT /v1/admin/inquiries/:id/quote.
func (h *RestInquiryHandler) AddInquiryQuote(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inquiry ID format"})
		return
	}

	var req addQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.FinalPrice == nil {
		respondError(c, apperrors.Validationf("finalPrice", "final price is required"))
		return
	}

	inq, err := h.inquiryService.AddInquiryQuote(c.Request.Context(), id, *req.FinalPrice, req.ValidUntil, req.Terms)
	if err != nil {
		respondError(c, err)
		return
	}

	if task, err := tasks.NewQuoteIssuedTask(h.cfg, inq); err != nil {
		log.Printf("WARN: failed to build quote notification task for %s: %v", inq.ID.Hex(), err)
	} else if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task); err != nil {
		log.Printf("WARN: failed to enqueue quote notification for %s: %v", inq.ID.Hex(), err)
	}

	c.JSON(http.StatusOK, h.resolver.Enrich(c.Request.Context(), inq))
}

// DeleteInquiry handles DELETE /v1/inquiries/:id.
func (h *RestInquiryHandler) DeleteInquiry(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inquiry ID format"})
		return
	}

	ident := identityFromContext(c)
	if err := h.inquiryService.DeleteInquiry(c.Request.Context(), id, ident); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
