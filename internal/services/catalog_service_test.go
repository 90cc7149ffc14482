package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/utils"
)

func setupCatalogService(t *testing.T) ICatalogService {
	db := utils.SetupTestDB(t, "travel_agency_test_catalog",
		"vehicles", "tour_guides", "drivers", "places")
	return NewCatalogService(db, &config.Config{})
}

func TestCatalogService_CreateAndFind(t *testing.T) {
	svc := setupCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateResource(ctx, models.KindVehicle, &models.Resource{
		Name:        "Toyota Coaster",
		Type:        "coach",
		Plate:       "WP-1234",
		Capacity:    28,
		PricePerDay: 120,
		Rating:      4.5,
	})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.NotNil(t, created.Photos)

	found, err := svc.FindResourceByID(ctx, models.KindVehicle, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Toyota Coaster", found.Name)
	assert.Equal(t, 28, found.Capacity)

	// A vehicle does not exist in the places collection
	_, err = svc.FindResourceByID(ctx, models.KindPlace, created.ID)
	assert.True(t, IsNotFound(err))
}

func TestCatalogService_UnknownKindRejected(t *testing.T) {
	svc := setupCatalogService(t)
	_, err := svc.CreateResource(context.Background(), "boats", &models.Resource{Name: "Ferry"})
	assert.Error(t, err)
}

func TestCatalogService_Update(t *testing.T) {
	svc := setupCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateResource(ctx, models.KindTourGuide, &models.Resource{
		Name:        "Nimal Perera",
		LicenseType: "national",
		Languages:   []string{"en", "de"},
		Rating:      4.2,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateResource(ctx, models.KindTourGuide, created.ID, map[string]interface{}{
		"rating":    4.8,
		"languages": []string{"en", "de", "fr"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4.8, updated.Rating)
	assert.Len(t, updated.Languages, 3)
	// Untouched fields survive
	assert.Equal(t, "national", updated.LicenseType)

	// Immutable fields are rejected
	_, err = svc.UpdateResource(ctx, models.KindTourGuide, created.ID, map[string]interface{}{
		"photos": []string{"sneaky.jpg"},
	})
	assert.Error(t, err)
}

func TestCatalogService_SoftDelete(t *testing.T) {
	svc := setupCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateResource(ctx, models.KindPlace, &models.Resource{
		Name:   "Sigiriya",
		Region: "Central",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteResource(ctx, models.KindPlace, created.ID))

	_, err = svc.FindResourceByID(ctx, models.KindPlace, created.ID)
	assert.True(t, IsNotFound(err))

	// Deleting again reports not found
	err = svc.DeleteResource(ctx, models.KindPlace, created.ID)
	assert.True(t, IsNotFound(err))

	// Gone from listings too
	results, err := svc.ListResources(ctx, models.KindPlace, 50)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCatalogService_AddPhoto(t *testing.T) {
	svc := setupCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateResource(ctx, models.KindDriver, &models.Resource{
		Name:        "Sunil Fernando",
		LicenseType: "heavy",
		Rating:      4.9,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AddPhoto(ctx, models.KindDriver, created.ID, "photos/driver/abc.jpg"))
	// Adding the same key twice keeps a single entry
	require.NoError(t, svc.AddPhoto(ctx, models.KindDriver, created.ID, "photos/driver/abc.jpg"))

	found, err := svc.FindResourceByID(ctx, models.KindDriver, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"photos/driver/abc.jpg"}, found.Photos)

	err = svc.AddPhoto(ctx, models.KindDriver, primitive.NewObjectID(), "photos/nope.jpg")
	assert.Error(t, err)
}

func TestCatalogService_Snapshot(t *testing.T) {
	svc := setupCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateResource(ctx, models.KindVehicle, &models.Resource{
		Name:   "Hiace Van",
		Type:   "van",
		Plate:  "WP-9876",
		Rating: 4.1,
	})
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx, models.KindVehicle, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, snap.ID)
	assert.Equal(t, "Hiace Van", snap.Name)
	assert.Equal(t, "van", snap.Type)
	assert.Equal(t, 4.1, snap.Rating)
}
