package services

import (
	"context"
	"encoding/json"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

// RawResourceRefs are the resource selections exactly as submitted. They stay
// strings until sanitized so a garbage id can be dropped instead of failing
// the whole request.
type RawResourceRefs struct {
	Vehicle   *string `json:"selectedVehicle"`
	TourGuide *string `json:"selectedTourGuide"`
	Driver    *string `json:"selectedDriver"`
}

// SanitizeRef parses a submitted reference into an ObjectID. A missing or
// malformed value becomes nil rather than an error: a bad client-side id must
// never block submission.
func SanitizeRef(raw *string) *primitive.ObjectID {
	if raw == nil || *raw == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(*raw)
	if err != nil {
		return nil
	}
	return &id
}

// SanitizeReferences applies SanitizeRef to all three selections.
func SanitizeReferences(raw RawResourceRefs) (vehicle, tourGuide, driver *primitive.ObjectID) {
	return SanitizeRef(raw.Vehicle), SanitizeRef(raw.TourGuide), SanitizeRef(raw.Driver)
}

// ResolutionState says how a stored resource reference fared at read time.
type ResolutionState int

const (
	// ResolutionResolved: the catalog record exists; Snapshot is set.
	ResolutionResolved ResolutionState = iota
	// ResolutionUnresolved: the record is gone or the lookup failed; only the
	// raw id is available.
	ResolutionUnresolved
)

// ResolvedRef is the read-time rendering of a resource reference. Resolved
// refs marshal as the snapshot object, unresolved ones as the raw id string.
// An absent reference is represented by a nil *ResolvedRef.
type ResolvedRef struct {
	State    ResolutionState
	Snapshot *models.ResourceSnapshot
	RawID    string
}

func (r ResolvedRef) MarshalJSON() ([]byte, error) {
	if r.State == ResolutionResolved {
		return json.Marshal(r.Snapshot)
	}
	return json.Marshal(r.RawID)
}

// PreferencesView is the enriched, display-only projection of an inquiry's
// preferences. The inline vehicle/tourGuide/driver snapshots are the legacy
// shape older clients read; they are derived from the resolved references (or
// passed through from legacy documents), never written back to storage.
type PreferencesView struct {
	HotelTier         *models.HotelTier        `json:"hotelTier,omitempty"`
	SelectedVehicle   *ResolvedRef             `json:"selectedVehicle,omitempty"`
	SelectedTourGuide *ResolvedRef             `json:"selectedTourGuide,omitempty"`
	SelectedDriver    *ResolvedRef             `json:"selectedDriver,omitempty"`
	Vehicle           *models.ResourceSnapshot `json:"vehicle,omitempty"`
	TourGuide         *models.ResourceSnapshot `json:"tourGuide,omitempty"`
	Driver            *models.ResourceSnapshot `json:"driver,omitempty"`
}

// InquiryView is an inquiry with its preferences swapped for the enriched
// projection. The embedded struct keeps every other field as stored.
type InquiryView struct {
	*models.Inquiry
	Preferences *PreferencesView `json:"preferences,omitempty"`
}

// IResourceResolver enriches stored resource references for responses.
type IResourceResolver interface {
	Enrich(ctx context.Context, inq *models.Inquiry) *InquiryView
	EnrichAll(ctx context.Context, inqs []models.Inquiry) []*InquiryView
}

// resourceResolver implements IResourceResolver over the catalog.
type resourceResolver struct {
	catalog ICatalogService
}

// NewResourceResolver creates a new ResourceResolver.
func NewResourceResolver(catalog ICatalogService) IResourceResolver {
	return &resourceResolver{catalog: catalog}
}

// resolve looks up one reference. Lookup errors are treated the same as
// not-found: the caller gets the raw id back and the response still renders.
// A degraded catalog must never make an inquiry unreadable.
func (r *resourceResolver) resolve(ctx context.Context, kind models.ResourceKind, id *primitive.ObjectID) *ResolvedRef {
	if id == nil {
		return nil
	}
	snapshot, err := r.catalog.Snapshot(ctx, kind, *id)
	if err != nil {
		if !IsNotFound(err) {
			log.Printf("WARN: %s lookup failed for %s, rendering raw id: %v", kind, id.Hex(), err)
		}
		return &ResolvedRef{State: ResolutionUnresolved, RawID: id.Hex()}
	}
	return &ResolvedRef{State: ResolutionResolved, Snapshot: snapshot}
}

// Enrich builds the display view for a single inquiry. Storage is never
// touched: enrichment is recomputed on every read.
func (r *resourceResolver) Enrich(ctx context.Context, inq *models.Inquiry) *InquiryView {
	view := &InquiryView{Inquiry: inq}
	if inq.Preferences == nil {
		return view
	}

	prefs := &PreferencesView{
		HotelTier:         inq.Preferences.HotelTier,
		SelectedVehicle:   r.resolve(ctx, models.KindVehicle, inq.Preferences.SelectedVehicle),
		SelectedTourGuide: r.resolve(ctx, models.KindTourGuide, inq.Preferences.SelectedTourGuide),
		SelectedDriver:    r.resolve(ctx, models.KindDriver, inq.Preferences.SelectedDriver),
	}

	// Legacy projection: prefer the freshly resolved snapshot, fall back to
	// whatever an older client wrote inline.
	prefs.Vehicle = legacySnapshot(prefs.SelectedVehicle, inq.Preferences.Vehicle)
	prefs.TourGuide = legacySnapshot(prefs.SelectedTourGuide, inq.Preferences.TourGuide)
	prefs.Driver = legacySnapshot(prefs.SelectedDriver, inq.Preferences.Driver)

	view.Preferences = prefs
	return view
}

// EnrichAll enriches a page of inquiries in order.
func (r *resourceResolver) EnrichAll(ctx context.Context, inqs []models.Inquiry) []*InquiryView {
	views := make([]*InquiryView, len(inqs))
	for i := range inqs {
		views[i] = r.Enrich(ctx, &inqs[i])
	}
	return views
}

func legacySnapshot(ref *ResolvedRef, stored *models.ResourceSnapshot) *models.ResourceSnapshot {
	if ref != nil && ref.State == ResolutionResolved {
		return ref.Snapshot
	}
	return stored
}
