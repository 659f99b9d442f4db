package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"greendrake/storefront/internal/config"
	"greendrake/storefront/internal/utils"
)

func setupTestDBCatalog(t *testing.T, dbName string) *mongo.Database {
	return utils.SetupTestDB(t, dbName, "catalog_items")
}

func TestCatalogService_CRUD(t *testing.T) {
	db := setupTestDBCatalog(t, "testdb_catalog_service_crud")
	svc := NewCatalogService(db, &config.Config{})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CatalogItemInput{
		Name:        "Corner Sofa",
		Category:    "lounge",
		Description: "Three-seater corner sofa",
		Specifications: map[string]interface{}{
			"width_cm": 280,
			"fabric":   "linen",
		},
		Applications: []string{"living room"},
	})
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.True(t, item.IsActive)
	assert.False(t, item.ID.IsZero())

	found, err := svc.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corner Sofa", found.Name)

	_, err = svc.GetItemByID(ctx, utils.NewSixID())
	var nfErr *NotFoundError
	assert.ErrorAs(t, err, &nfErr)

	updated, err := svc.UpdateItem(ctx, item.ID, map[string]interface{}{
		"name":       "Corner Sofa XL",
		"unknown":    "dropped silently",
		"created_at": "not an allowed field",
	})
	require.NoError(t, err)
	assert.Equal(t, "Corner Sofa XL", updated.Name)
	assert.Equal(t, item.CreatedAt.Unix(), updated.CreatedAt.Unix())

	err = svc.DeactivateItem(ctx, item.ID)
	require.NoError(t, err)

	// Deactivated items stay retrievable by ID but leave the public listing.
	found, err = svc.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	public, err := svc.GetPublicCatalog(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := svc.GetAllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCatalogService_PublicCatalogCategoryFilter(t *testing.T) {
	db := setupTestDBCatalog(t, "testdb_catalog_service_category")
	svc := NewCatalogService(db, &config.Config{})
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CatalogItemInput{Name: "Oak Table", Category: "dining"})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, CatalogItemInput{Name: "Bookshelf", Category: "office"})
	require.NoError(t, err)

	category := "dining"
	items, err := svc.GetPublicCatalog(ctx, &category)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Oak Table", items[0].Name)
}

func TestCatalogService_AddImageToItem(t *testing.T) {
	db := setupTestDBCatalog(t, "testdb_catalog_service_images")
	svc := NewCatalogService(db, &config.Config{})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CatalogItemInput{Name: "Armchair", Category: "lounge"})
	require.NoError(t, err)

	err = svc.AddImageToItem(ctx, item.ID, "catalog/abc/main.jpg")
	require.NoError(t, err)
	// Re-adding the same key must not duplicate it.
	err = svc.AddImageToItem(ctx, item.ID, "catalog/abc/main.jpg")
	require.NoError(t, err)

	found, err := svc.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"catalog/abc/main.jpg"}, found.Images)

	err = svc.AddImageToItem(ctx, utils.NewSixID(), "catalog/ghost/main.jpg")
	var nfErr *NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}
