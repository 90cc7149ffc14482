package services

import (
	"fmt"
	"time"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/apperrors"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

// Bounds for a single itinerary item. Day is bounded by the calendar year, not
// by tripDetails.totalDays: an item on day 20 of a 5-day trip is accepted.
const (
	MinItineraryDay = 1
	MaxItineraryDay = 365
	MinItemNights   = 0
	MaxItemNights   = 30
)

// Bounds for the trip as a whole.
const (
	MinTravellers = 1
	MaxTravellers = 50
)

const (
	MaxAdditionalRequirementsLen = 1000
	MaxAdminNotesLen             = 2000
)

// ValidateTripDetails checks the overall trip shape. The start date must be
// strictly in the future relative to now.
func ValidateTripDetails(details models.TripDetails, now time.Time) error {
	verr := apperrors.NewValidation()
	if !details.StartDate.After(now) {
		verr.Add("tripDetails.startDate", "start date must be in the future")
	}
	if details.Travellers < MinTravellers || details.Travellers > MaxTravellers {
		verr.Addf("tripDetails.travellers", "travellers must be between %d and %d", MinTravellers, MaxTravellers)
	}
	if details.TotalDays < 1 {
		verr.Add("tripDetails.totalDays", "total days must be at least 1")
	}
	if details.TotalNights < 0 {
		verr.Add("tripDetails.totalNights", "total nights cannot be negative")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// ValidateContactInfo requires a name and an email.
func ValidateContactInfo(contact models.ContactInfo) error {
	verr := apperrors.NewValidation()
	if contact.Name == "" {
		verr.Add("contactInfo.name", "name is required")
	}
	if contact.Email == "" {
		verr.Add("contactInfo.email", "email is required")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// ValidateItinerary checks every item against the per-item bounds and, on
// success, returns a reindexed copy of the itinerary. The input is not
// modified. Duplicate (day, timeOfDay) pairs are allowed; a customer can plan
// two stops in the same slot.
func ValidateItinerary(items []models.ItineraryItem) ([]models.ItineraryItem, error) {
	if len(items) == 0 {
		return nil, apperrors.Validationf("itinerary", "itinerary cannot be empty")
	}

	verr := apperrors.NewValidation()
	for i, item := range items {
		field := fmt.Sprintf("itinerary[%d]", i)
		if item.Day < MinItineraryDay || item.Day > MaxItineraryDay {
			verr.Addf(field+".day", "day must be between %d and %d", MinItineraryDay, MaxItineraryDay)
		}
		if item.Nights < MinItemNights || item.Nights > MaxItemNights {
			verr.Addf(field+".nights", "nights must be between %d and %d", MinItemNights, MaxItemNights)
		}
		if item.TimeOfDay != models.TimeOfDayDay && item.TimeOfDay != models.TimeOfDayNight {
			verr.Addf(field+".timeOfDay", "timeOfDay must be %q or %q", models.TimeOfDayDay, models.TimeOfDayNight)
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	return ReindexItinerary(items), nil
}

// ReindexItinerary returns a copy of items with order set to position+1.
// Order is a derived field: whatever the client sent is overwritten here, on
// every write, before the document is persisted. Items are not reordered:
// array position as submitted is canonical, and display ordering by day/time
// is a presentation concern.
func ReindexItinerary(items []models.ItineraryItem) []models.ItineraryItem {
	out := make([]models.ItineraryItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}
