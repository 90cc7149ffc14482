package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/apperrors"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

func validTripDetails(now time.Time) models.TripDetails {
	return models.TripDetails{
		StartDate:   now.Add(48 * time.Hour),
		Travellers:  2,
		TotalDays:   5,
		TotalNights: 4,
	}
}

func TestValidateTripDetails_Success(t *testing.T) {
	now := time.Now().UTC()
	err := ValidateTripDetails(validTripDetails(now), now)
	assert.NoError(t, err)
}

func TestValidateTripDetails_StartDateMustBeFuture(t *testing.T) {
	now := time.Now().UTC()

	details := validTripDetails(now)
	details.StartDate = now // Exactly now is not strictly in the future
	err := ValidateTripDetails(details, now)
	require.Error(t, err)
	verr, ok := err.(*apperrors.ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "tripDetails.startDate")

	details.StartDate = now.Add(-24 * time.Hour)
	err = ValidateTripDetails(details, now)
	assert.Error(t, err)
}

func TestValidateTripDetails_TravellerBounds(t *testing.T) {
	now := time.Now().UTC()

	details := validTripDetails(now)
	details.Travellers = 0
	err := ValidateTripDetails(details, now)
	require.Error(t, err)

	details.Travellers = MaxTravellers + 1
	err = ValidateTripDetails(details, now)
	require.Error(t, err)
	verr, ok := err.(*apperrors.ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "tripDetails.travellers")

	details.Travellers = MaxTravellers
	assert.NoError(t, ValidateTripDetails(details, now))
}

func TestValidateContactInfo(t *testing.T) {
	err := ValidateContactInfo(models.ContactInfo{Name: "Jane", Email: "jane@example.com"})
	assert.NoError(t, err)

	err = ValidateContactInfo(models.ContactInfo{})
	require.Error(t, err)
	verr, ok := err.(*apperrors.ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "contactInfo.name")
	assert.Contains(t, verr.Fields, "contactInfo.email")
}

func makeItem(day int, tod models.TimeOfDay, nights int) models.ItineraryItem {
	return models.ItineraryItem{
		PlaceID:   primitive.NewObjectID(),
		Day:       day,
		TimeOfDay: tod,
		Nights:    nights,
	}
}

func TestValidateItinerary_EmptyRejected(t *testing.T) {
	_, err := ValidateItinerary(nil)
	require.Error(t, err)
	verr, ok := err.(*apperrors.ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "itinerary")
}

func TestValidateItinerary_ReindexesOrder(t *testing.T) {
	items := []models.ItineraryItem{
		makeItem(3, models.TimeOfDayDay, 0),
		makeItem(1, models.TimeOfDayNight, 2),
		makeItem(2, models.TimeOfDayDay, 1),
	}
	// Whatever the client sent as order must be discarded
	items[0].Order = 99
	items[1].Order = -5

	out, err := ValidateItinerary(items)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, item := range out {
		assert.Equal(t, i+1, item.Order)
	}
	// Array position is canonical; items are not reordered by day
	assert.Equal(t, 3, out[0].Day)
	assert.Equal(t, 1, out[1].Day)

	// Input slice stays untouched
	assert.Equal(t, 99, items[0].Order)
}

func TestValidateItinerary_Bounds(t *testing.T) {
	cases := []struct {
		name  string
		item  models.ItineraryItem
		field string
	}{
		{"day too low", makeItem(0, models.TimeOfDayDay, 1), "itinerary[0].day"},
		{"day too high", makeItem(MaxItineraryDay+1, models.TimeOfDayDay, 1), "itinerary[0].day"},
		{"negative nights", makeItem(1, models.TimeOfDayNight, -1), "itinerary[0].nights"},
		{"nights too high", makeItem(1, models.TimeOfDayNight, MaxItemNights+1), "itinerary[0].nights"},
		{"bad time of day", makeItem(1, "afternoon", 1), "itinerary[0].timeOfDay"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateItinerary([]models.ItineraryItem{tc.item})
			require.Error(t, err)
			verr, ok := err.(*apperrors.ValidationError)
			require.True(t, ok)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestValidateItinerary_DayNotBoundedByTripLength(t *testing.T) {
	// Day 20 on what might be a 5-day trip is still accepted; the itinerary
	// validator only enforces the calendar-year bound.
	items := []models.ItineraryItem{makeItem(20, models.TimeOfDayDay, 0)}
	out, err := ValidateItinerary(items)
	require.NoError(t, err)
	assert.Equal(t, 20, out[0].Day)
}

func TestValidateItinerary_DuplicateSlotsAllowed(t *testing.T) {
	items := []models.ItineraryItem{
		makeItem(1, models.TimeOfDayDay, 0),
		makeItem(1, models.TimeOfDayDay, 0),
	}
	out, err := ValidateItinerary(items)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestReindexItinerary_PureFunction(t *testing.T) {
	items := []models.ItineraryItem{
		makeItem(1, models.TimeOfDayDay, 0),
		makeItem(2, models.TimeOfDayNight, 3),
	}
	items[0].Order = 42
	items[1].Order = 0

	out := ReindexItinerary(items)
	assert.Equal(t, 1, out[0].Order)
	assert.Equal(t, 2, out[1].Order)
	assert.Equal(t, 42, items[0].Order)

	// Reindexing twice is a no-op
	again := ReindexItinerary(out)
	assert.Equal(t, out, again)
}
