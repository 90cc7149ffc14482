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

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/db"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

// ICatalogService defines the interface for catalog operations over vehicles,
// tour guides, drivers and places.
type ICatalogService interface {
	CreateResource(ctx context.Context, kind models.ResourceKind, res *models.Resource) (*models.Resource, error)
	FindResourceByID(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID) (*models.Resource, error)
	ListResources(ctx context.Context, kind models.ResourceKind, limit int) ([]models.Resource, error)
	UpdateResource(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID, updates map[string]interface{}) (*models.Resource, error)
	DeleteResource(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID) error
	AddPhoto(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID, photoKey string) error
	Snapshot(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID) (*models.ResourceSnapshot, error)
}

// collectionFor maps a resource kind to its Mongo collection.
func collectionFor(kind models.ResourceKind) string {
	switch kind {
	case models.KindVehicle:
		return "vehicles"
	case models.KindTourGuide:
		return "tour_guides"
	case models.KindDriver:
		return "drivers"
	case models.KindPlace:
		return "places"
	}
	return ""
}

// catalogService implements ICatalogService.
type catalogService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(database *mongo.Database, cfg *config.Config) ICatalogService {
	return &catalogService{db: database, cfg: cfg}
}

func (s *catalogService) collection(kind models.ResourceKind) (*mongo.Collection, error) {
	name := collectionFor(kind)
	if name == "" {
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
	return s.db.Collection(name), nil
}

// CreateResource inserts a new catalog record. Vehicle inserts can collide on
// the unique plate index, so the write goes through the duplicate-key retry
// helper like every other unique-indexed insert.
func (s *catalogService) CreateResource(ctx context.Context, kind models.ResourceKind, res *models.Resource) (*models.Resource, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res.ID = primitive.NewObjectID()
	res.CreatedAt = now
	res.UpdatedAt = now
	res.Deleted = false
	if res.Photos == nil {
		res.Photos = []string{}
	}

	err = db.Try(func() error {
		_, insertErr := coll.InsertOne(ctx, res)
		return insertErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s %s: %w", kind, res.ID.Hex(), err)
	}

	return res, nil
}

// FindResourceByID finds a non-deleted resource by its ID.
func (s *catalogService) FindResourceByID(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID) (*models.Resource, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return nil, err
	}

	var res models.Resource
	err = coll.FindOne(ctx, bson.M{"_id": id, "deleted": false}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding %s %s: %w", kind, id.Hex(), err)
	}
	return &res, nil
}

// ListResources returns non-deleted resources of a kind, newest first.
func (s *catalogService) ListResources(ctx context.Context, kind models.ResourceKind, limit int) ([]models.Resource, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{"deleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	defer cursor.Close(ctx)

	var results []models.Resource
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode %s list: %w", kind, err)
	}
	return results, nil
}

// UpdateResource updates mutable fields of a resource. `updates` holds BSON
// field names and new values; fields outside the allowed set are rejected.
func (s *catalogService) UpdateResource(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID, updates map[string]interface{}) (*models.Resource, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return nil, err
	}

	allowedUpdates := bson.M{}
	for key, value := range updates {
		switch key {
		case "name", "type", "license_type", "plate", "capacity", "languages",
			"region", "description", "price_per_day", "rating":
			allowedUpdates[key] = value
		default:
			return nil, fmt.Errorf("field '%s' cannot be updated via UpdateResource", key)
		}
	}
	if len(allowedUpdates) == 0 {
		return nil, fmt.Errorf("no valid fields provided for update")
	}
	allowedUpdates["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Resource
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "deleted": false},
		bson.M{"$set": allowedUpdates},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to update %s %s: %w", kind, id.Hex(), err)
	}
	return &updated, nil
}

// DeleteResource performs a soft delete. Inquiries referencing the resource
// keep their reference; reads degrade to the unresolved raw id.
func (s *catalogService) DeleteResource(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID) error {
	coll, err := s.collection(kind)
	if err != nil {
		return err
	}

	result, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("db error deleting %s %s: %w", kind, id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddPhoto adds a processed photo key to a resource. Called by the image
// processing task after the upload has been resized.
func (s *catalogService) AddPhoto(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID, photoKey string) error {
	coll, err := s.collection(kind)
	if err != nil {
		return err
	}

	result, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "deleted": false},
		bson.M{
			"$addToSet": bson.M{"photos": photoKey},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("db error adding photo %s to %s %s: %w", photoKey, kind, id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s %s not found when adding photo", kind, id.Hex())
	}
	return nil
}

// IsNotFound reports whether err is the driver's not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// Snapshot returns the canonical display projection for a resource.
func (s *catalogService) Snapshot(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID) (*models.ResourceSnapshot, error) {
	res, err := s.FindResourceByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return res.Snapshot(), nil
}
