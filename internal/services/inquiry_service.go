package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/apperrors"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

// Identity is the caller as established by the auth middleware. A nil UserID
// means an unauthenticated caller.
type Identity struct {
	UserID  *primitive.ObjectID
	IsAdmin bool
}

// CreateInquiryInput is everything a submission carries. Resource references
// arrive raw and are sanitized here, not rejected.
type CreateInquiryInput struct {
	ContactInfo            models.ContactInfo
	TripDetails            models.TripDetails
	Itinerary              []models.ItineraryItem
	HotelTier              *models.HotelTier
	ResourceRefs           RawResourceRefs
	Cost                   CostBreakdownInput
	AdditionalRequirements string
}

// Pagination describes a page of list results.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// IInquiryService defines the interface for custom trip inquiry operations.
type IInquiryService interface {
	CreateInquiry(ctx context.Context, input CreateInquiryInput, userID *primitive.ObjectID) (*models.Inquiry, error)
	FindInquiryByID(ctx context.Context, id primitive.ObjectID, ident Identity) (*models.Inquiry, error)
	ListInquiries(ctx context.Context, ident Identity, status *models.InquiryStatus, page, limit int) ([]models.Inquiry, *Pagination, error)
	UpdateInquiryStatus(ctx context.Context, id primitive.ObjectID, newStatus models.InquiryStatus, adminNotes string) (*models.Inquiry, error)
	AddInquiryQuote(ctx context.Context, id primitive.ObjectID, finalPrice float64, validUntil *time.Time, terms string) (*models.Inquiry, error)
	DeleteInquiry(ctx context.Context, id primitive.ObjectID, ident Identity) error
}

const inquiriesCollection = "trip_inquiries"

// inquiryService implements IInquiryService.
type inquiryService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewInquiryService creates a new InquiryService.
func NewInquiryService(database *mongo.Database, cfg *config.Config) IInquiryService {
	return &inquiryService{db: database, cfg: cfg}
}

// CreateInquiry validates a submission and persists it in the pending status.
// userID is the authenticated caller if there is one; anonymous submissions
// store no owner. Validation order: contact info, trip details, itinerary,
// cost breakdown. Resource references are sanitized, never rejected.
func (s *inquiryService) CreateInquiry(ctx context.Context, input CreateInquiryInput, userID *primitive.ObjectID) (*models.Inquiry, error) {
	now := time.Now().UTC()

	if err := ValidateContactInfo(input.ContactInfo); err != nil {
		return nil, err
	}
	if err := ValidateTripDetails(input.TripDetails, now); err != nil {
		return nil, err
	}
	itinerary, err := ValidateItinerary(input.Itinerary)
	if err != nil {
		return nil, err
	}
	cost, err := ValidateCostBreakdown(input.Cost)
	if err != nil {
		return nil, err
	}
	if len(input.AdditionalRequirements) > MaxAdditionalRequirementsLen {
		return nil, apperrors.Validationf("additionalRequirements",
			"additional requirements cannot exceed %d characters", MaxAdditionalRequirementsLen)
	}

	vehicle, tourGuide, driver := SanitizeReferences(input.ResourceRefs)

	var prefs *models.Preferences
	if input.HotelTier != nil || vehicle != nil || tourGuide != nil || driver != nil {
		// New writes only ever set the canonical reference fields; the legacy
		// inline snapshots stay nil.
		prefs = &models.Preferences{
			HotelTier:         input.HotelTier,
			SelectedVehicle:   vehicle,
			SelectedTourGuide: tourGuide,
			SelectedDriver:    driver,
		}
	}

	inq := &models.Inquiry{
		ID:                     primitive.NewObjectID(),
		UserID:                 userID,
		ContactInfo:            input.ContactInfo,
		TripDetails:            input.TripDetails,
		Itinerary:              itinerary,
		Preferences:            prefs,
		CostBreakdown:          cost,
		AdditionalRequirements: input.AdditionalRequirements,
		Status:                 models.InquiryStatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if _, err := s.db.Collection(inquiriesCollection).InsertOne(ctx, inq); err != nil {
		return nil, fmt.Errorf("failed to insert inquiry: %w", err)
	}

	return inq, nil
}

// findByID loads a non-deleted inquiry without any ownership check.
func (s *inquiryService) findByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	var inq models.Inquiry
	err := s.db.Collection(inquiriesCollection).
		FindOne(ctx, bson.M{"_id": id, "deleted": false}).
		Decode(&inq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("inquiry", id.Hex())
		}
		return nil, fmt.Errorf("error finding inquiry %s: %w", id.Hex(), err)
	}
	return &inq, nil
}

// checkOwnership enforces the access rule: admins see everything, including
// anonymous inquiries; everyone else only their own.
func checkOwnership(inq *models.Inquiry, ident Identity) error {
	if ident.IsAdmin {
		return nil
	}
	if ident.UserID == nil || inq.UserID == nil || *inq.UserID != *ident.UserID {
		return apperrors.Forbidden("you do not have access to this inquiry")
	}
	return nil
}

// FindInquiryByID is the ownership-checked single fetch.
func (s *inquiryService) FindInquiryByID(ctx context.Context, id primitive.ObjectID, ident Identity) (*models.Inquiry, error) {
	inq, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(inq, ident); err != nil {
		return nil, err
	}
	return inq, nil
}

// ListInquiries returns an ownership-filtered, paginated page, newest first.
func (s *inquiryService) ListInquiries(ctx context.Context, ident Identity, status *models.InquiryStatus, page, limit int) ([]models.Inquiry, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := bson.M{"deleted": false}
	if !ident.IsAdmin {
		if ident.UserID == nil {
			return nil, nil, apperrors.Forbidden("authentication required to list inquiries")
		}
		filter["user"] = *ident.UserID
	}
	if status != nil {
		if !status.Valid() {
			return nil, nil, &apperrors.InvalidStatusError{Status: string(*status)}
		}
		filter["status"] = *status
	}

	coll := s.db.Collection(inquiriesCollection)

	totalItems, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count inquiries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Inquiry
	if err = cursor.All(ctx, &results); err != nil {
		return nil, nil, fmt.Errorf("failed to decode inquiries: %w", err)
	}

	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	pagination := &Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
	}
	return results, pagination, nil
}

// UpdateInquiryStatus runs the state machine against the stored inquiry and
// persists the result. Two concurrent updates race and the later write wins;
// the record carries no version field.
func (s *inquiryService) UpdateInquiryStatus(ctx context.Context, id primitive.ObjectID, newStatus models.InquiryStatus, adminNotes string) (*models.Inquiry, error) {
	inq, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := TransitionInquiry(inq, newStatus, adminNotes, now); err != nil {
		return nil, err
	}

	set := bson.M{
		"status":      inq.Status,
		"admin_notes": inq.AdminNotes,
		"updated_at":  inq.UpdatedAt,
	}
	if inq.ReviewedAt != nil {
		set["reviewed_at"] = *inq.ReviewedAt
	}
	if inq.QuotedAt != nil {
		set["quoted_at"] = *inq.QuotedAt
	}

	if _, err := s.db.Collection(inquiriesCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update inquiry %s status: %w", id.Hex(), err)
	}

	return inq, nil
}

// AddInquiryQuote attaches a quote and forces the quoted status, whatever the
// current status is.
func (s *inquiryService) AddInquiryQuote(ctx context.Context, id primitive.ObjectID, finalPrice float64, validUntil *time.Time, terms string) (*models.Inquiry, error) {
	inq, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := ApplyQuote(inq, finalPrice, validUntil, terms, now); err != nil {
		return nil, err
	}

	set := bson.M{
		"quote":      inq.Quote,
		"status":     inq.Status,
		"quoted_at":  *inq.QuotedAt,
		"updated_at": inq.UpdatedAt,
	}

	if _, err := s.db.Collection(inquiriesCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to add quote to inquiry %s: %w", id.Hex(), err)
	}

	return inq, nil
}

// DeleteInquiry soft-deletes an inquiry the caller owns (or any, for admins).
func (s *inquiryService) DeleteInquiry(ctx context.Context, id primitive.ObjectID, ident Identity) error {
	inq, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwnership(inq, ident); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.Collection(inquiriesCollection).UpdateOne(ctx,
		bson.M{"_id": id, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete inquiry %s: %w", id.Hex(), err)
	}
	return nil
}
