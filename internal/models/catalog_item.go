package models

import (
	"time"

	"greendrake/storefront/internal/utils"
)

// CatalogItem is one product in the storefront catalogue. Deactivated items
// stay referenced by historical submissions, so deletion is a soft disable.
type CatalogItem struct {
	ID             utils.SixID            `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string                 `bson:"name" json:"name"`
	Category       string                 `bson:"category" json:"category"`
	Description    string                 `bson:"description" json:"description"`
	Specifications map[string]interface{} `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Applications   []string               `bson:"applications,omitempty" json:"applications,omitempty"`
	Images         []string               `bson:"images,omitempty" json:"images,omitempty"` // S3 object keys
	IsActive       bool                   `bson:"is_active" json:"isActive"`
	CreatedAt      time.Time              `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time              `bson:"updated_at" json:"updatedAt"`
}
