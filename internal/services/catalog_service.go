package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greendrake/storefront/internal/config"
	"greendrake/storefront/internal/db"
	"greendrake/storefront/internal/models"
	"greendrake/storefront/internal/utils"
)

const catalogCollection = "catalog_items"

// CatalogItemInput carries the fields for creating a catalog item.
type CatalogItemInput struct {
	Name           string
	Category       string
	Description    string
	Specifications map[string]interface{}
	Applications   []string
	Images         []string
}

// ICatalogService defines the interface for catalog operations.
type ICatalogService interface {
	GetPublicCatalog(ctx context.Context, category *string) ([]models.CatalogItem, error)
	GetItemByID(ctx context.Context, id utils.SixID) (*models.CatalogItem, error)
	GetAllItems(ctx context.Context) ([]models.CatalogItem, error)
	CreateItem(ctx context.Context, input CatalogItemInput) (*models.CatalogItem, error)
	UpdateItem(ctx context.Context, id utils.SixID, updates map[string]interface{}) (*models.CatalogItem, error)
	DeactivateItem(ctx context.Context, id utils.SixID) error
	AddImageToItem(ctx context.Context, id utils.SixID, imageKey string) error
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

// GetPublicCatalog lists active items, optionally filtered by category,
// newest first.
func (s *catalogService) GetPublicCatalog(ctx context.Context, category *string) ([]models.CatalogItem, error) {
	query := bson.M{"is_active": true}
	if category != nil {
		query["category"] = *category
	}
	return s.findItems(ctx, query)
}

// GetAllItems lists every item including deactivated ones, newest first.
func (s *catalogService) GetAllItems(ctx context.Context) ([]models.CatalogItem, error) {
	return s.findItems(ctx, bson.M{})
}

// GetItemByID returns one catalog item.
func (s *catalogService) GetItemByID(ctx context.Context, id utils.SixID) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := s.db.Collection(catalogCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &NotFoundError{Message: "catalog item not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog item: %w", err)
	}
	return &item, nil
}

// CreateItem creates an active catalog item. Retries on the (unlikely) random
// ID collision.
func (s *catalogService) CreateItem(ctx context.Context, input CatalogItemInput) (*models.CatalogItem, error) {
	now := time.Now().UTC()
	var item *models.CatalogItem

	err := db.Try(func() error {
		item = &models.CatalogItem{
			ID:             utils.NewSixID(),
			Name:           input.Name,
			Category:       input.Category,
			Description:    input.Description,
			Specifications: input.Specifications,
			Applications:   input.Applications,
			Images:         input.Images,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		_, err := s.db.Collection(catalogCollection).InsertOne(ctx, item)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert catalog item: %w", err)
	}
	return item, nil
}

// allowed update fields; anything else in the map is dropped.
var catalogUpdateFields = map[string]bool{
	"name":           true,
	"category":       true,
	"description":    true,
	"specifications": true,
	"applications":   true,
	"images":         true,
	"is_active":      true,
}

// UpdateItem applies a partial update and returns the updated item.
func (s *catalogService) UpdateItem(ctx context.Context, id utils.SixID, updates map[string]interface{}) (*models.CatalogItem, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range updates {
		if catalogUpdateFields[k] {
			set[k] = v
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.CatalogItem
	err := s.db.Collection(catalogCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &NotFoundError{Message: "catalog item not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update catalog item: %w", err)
	}
	return &item, nil
}

// DeactivateItem soft-deletes an item. Submissions keep referencing it.
func (s *catalogService) DeactivateItem(ctx context.Context, id utils.SixID) error {
	_, err := s.UpdateItem(ctx, id, map[string]interface{}{"is_active": false})
	return err
}

// AddImageToItem appends a processed image key to the item. Called by the
// image worker after normalization.
func (s *catalogService) AddImageToItem(ctx context.Context, id utils.SixID, imageKey string) error {
	update := bson.M{
		"$addToSet": bson.M{"images": imageKey},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.db.Collection(catalogCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to add image to catalog item: %w", err)
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{Message: "catalog item not found"}
	}
	return nil
}

func (s *catalogService) findItems(ctx context.Context, query bson.M) ([]models.CatalogItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(catalogCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.CatalogItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog items: %w", err)
	}
	return items, nil
}
