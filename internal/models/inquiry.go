package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InquiryStatus is the lifecycle status of a custom trip inquiry.
type InquiryStatus string

const (
	InquiryStatusPending   InquiryStatus = "pending"
	InquiryStatusReviewed  InquiryStatus = "reviewed"
	InquiryStatusQuoted    InquiryStatus = "quoted"
	InquiryStatusAccepted  InquiryStatus = "accepted"
	InquiryStatusRejected  InquiryStatus = "rejected"
	InquiryStatusCompleted InquiryStatus = "completed"
)

// Valid reports whether s is one of the six known statuses.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusPending, InquiryStatusReviewed, InquiryStatusQuoted,
		InquiryStatusAccepted, InquiryStatusRejected, InquiryStatusCompleted:
		return true
	}
	return false
}

// TimeOfDay says whether an itinerary item occupies the day or the night slot.
type TimeOfDay string

const (
	TimeOfDayDay   TimeOfDay = "day"
	TimeOfDayNight TimeOfDay = "night"
)

// ContactInfo is who to reach about the inquiry. Present even for anonymous
// submissions, since the submitter may not have an account.
type ContactInfo struct {
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// TripDetails holds the overall shape of the proposed trip.
type TripDetails struct {
	StartDate   time.Time `bson:"start_date" json:"startDate"`
	Travellers  int       `bson:"travellers" json:"travellers"`
	TotalDays   int       `bson:"total_days" json:"totalDays"`
	TotalNights int       `bson:"total_nights" json:"totalNights"`
}

// ItineraryItem is a single (place, day, time-of-day, nights) entry in a
// proposed itinerary. Order is server-assigned: always 1..N matching array
// position, recomputed on every write. Client-supplied order is discarded.
type ItineraryItem struct {
	PlaceID   primitive.ObjectID `bson:"place" json:"place"`
	Day       int                `bson:"day" json:"day"`
	TimeOfDay TimeOfDay          `bson:"time_of_day" json:"timeOfDay"`
	Nights    int                `bson:"nights" json:"nights"`
	Order     int                `bson:"order" json:"order"`
}

// HotelTier is an inline snapshot of the hotel class the customer picked.
type HotelTier struct {
	ID            string  `bson:"id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	Stars         int     `bson:"stars" json:"stars"`
	PricePerNight float64 `bson:"price_per_night" json:"pricePerNight"`
}

// Preferences carries the optional hotel tier and resource selections.
//
// SelectedVehicle/SelectedTourGuide/SelectedDriver are the canonical
// representation: either a valid catalog reference or nil. The inline
// Vehicle/TourGuide/Driver snapshots exist only so documents written by older
// clients still read back; new code paths never write them.
type Preferences struct {
	HotelTier         *HotelTier          `bson:"hotel_tier,omitempty" json:"hotelTier,omitempty"`
	SelectedVehicle   *primitive.ObjectID `bson:"selected_vehicle,omitempty" json:"selectedVehicle,omitempty"`
	SelectedTourGuide *primitive.ObjectID `bson:"selected_tour_guide,omitempty" json:"selectedTourGuide,omitempty"`
	SelectedDriver    *primitive.ObjectID `bson:"selected_driver,omitempty" json:"selectedDriver,omitempty"`
	Vehicle           *ResourceSnapshot   `bson:"vehicle,omitempty" json:"vehicle,omitempty"`
	TourGuide         *ResourceSnapshot   `bson:"tour_guide,omitempty" json:"tourGuide,omitempty"`
	Driver            *ResourceSnapshot   `bson:"driver,omitempty" json:"driver,omitempty"`
}

// CostBreakdown is the itemized and total price estimated for the trip.
// TotalCost is accepted as submitted; it is not recomputed from the components.
type CostBreakdown struct {
	HotelCost     float64 `bson:"hotel_cost" json:"hotelCost"`
	TransportCost float64 `bson:"transport_cost" json:"transportCost"`
	GuideCost     float64 `bson:"guide_cost" json:"guideCost"`
	DriverCost    float64 `bson:"driver_cost" json:"driverCost"`
	Taxes         float64 `bson:"taxes" json:"taxes"`
	TotalCost     float64 `bson:"total_cost" json:"totalCost"`
}

// Quote is the staff-issued price for an inquiry.
type Quote struct {
	FinalPrice float64    `bson:"final_price" json:"finalPrice"`
	ValidUntil *time.Time `bson:"valid_until,omitempty" json:"validUntil,omitempty"`
	Terms      string     `bson:"terms,omitempty" json:"terms,omitempty"`
}

// Inquiry is the root aggregate for a custom trip inquiry.
type Inquiry struct {
	ID                     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID                 *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"` // nil for anonymous submissions
	ContactInfo            ContactInfo         `bson:"contact_info" json:"contactInfo"`
	TripDetails            TripDetails         `bson:"trip_details" json:"tripDetails"`
	Itinerary              []ItineraryItem     `bson:"itinerary" json:"itinerary"`
	Preferences            *Preferences        `bson:"preferences,omitempty" json:"preferences,omitempty"`
	CostBreakdown          CostBreakdown       `bson:"cost_breakdown" json:"costBreakdown"`
	AdditionalRequirements string              `bson:"additional_requirements,omitempty" json:"additionalRequirements,omitempty"`
	Status                 InquiryStatus       `bson:"status" json:"status"`
	AdminNotes             string              `bson:"admin_notes,omitempty" json:"adminNotes,omitempty"`
	Quote                  *Quote              `bson:"quote,omitempty" json:"quote,omitempty"`
	CreatedAt              time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt              time.Time           `bson:"updated_at" json:"updatedAt"`
	ReviewedAt             *time.Time          `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
	QuotedAt               *time.Time          `bson:"quoted_at,omitempty" json:"quotedAt,omitempty"`
	Deleted                bool                `bson:"deleted" json:"-"` // Soft delete flag
}
