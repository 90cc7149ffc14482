package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceKind identifies which catalog collection a resource lives in.
type ResourceKind string

const (
	KindVehicle   ResourceKind = "vehicle"
	KindTourGuide ResourceKind = "tour_guide"
	KindDriver    ResourceKind = "driver"
	KindPlace     ResourceKind = "place"
)

// Valid reports whether k is a known resource kind.
func (k ResourceKind) Valid() bool {
	switch k {
	case KindVehicle, KindTourGuide, KindDriver, KindPlace:
		return true
	}
	return false
}

// Resource is a catalog record for a vehicle, tour guide, driver or place.
// The kinds share one document shape; fields that do not apply to a kind are
// simply left unset (e.g. Capacity on a driver, LicenseType on a place).
type Resource struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Type        string             `bson:"type,omitempty" json:"type,omitempty"`                 // vehicles: "van", "coach", ...
	LicenseType string             `bson:"license_type,omitempty" json:"licenseType,omitempty"`  // guides and drivers
	Plate       string             `bson:"plate,omitempty" json:"plate,omitempty"`               // vehicles, unique
	Capacity    int                `bson:"capacity,omitempty" json:"capacity,omitempty"`         // vehicles
	Languages   []string           `bson:"languages,omitempty" json:"languages,omitempty"`       // guides
	Region      string             `bson:"region,omitempty" json:"region,omitempty"`             // places
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	PricePerDay float64            `bson:"price_per_day,omitempty" json:"pricePerDay,omitempty"`
	Rating      float64            `bson:"rating" json:"rating"`
	Photos      []string           `bson:"photos" json:"photos"` // S3 keys
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
	Deleted     bool               `bson:"deleted" json:"-"` // Soft delete flag
}

// ResourceSnapshot is the canonical display projection of a catalog resource,
// as embedded in enriched inquiry reads. Type is set for vehicles and
// LicenseType for guides/drivers; the other stays empty.
type ResourceSnapshot struct {
	ID          primitive.ObjectID `bson:"id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Type        string             `bson:"type,omitempty" json:"type,omitempty"`
	LicenseType string             `bson:"license_type,omitempty" json:"licenseType,omitempty"`
	Rating      float64            `bson:"rating" json:"rating"`
}

// Snapshot derives the display projection for r.
func (r *Resource) Snapshot() *ResourceSnapshot {
	return &ResourceSnapshot{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		LicenseType: r.LicenseType,
		Rating:      r.Rating,
	}
}
