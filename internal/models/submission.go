package models

import (
	"time"

	"greendrake/storefront/internal/utils"
)

// SubmissionKind distinguishes enquiries from orders.
type SubmissionKind string

const (
	KindEnquiry SubmissionKind = "ENQUIRY"
	KindOrder   SubmissionKind = "ORDER"
)

// IsValid reports whether k is a known submission kind.
func (k SubmissionKind) IsValid() bool {
	return k == KindEnquiry || k == KindOrder
}

// SubmissionItem is one line item of a submission.
type SubmissionItem struct {
	CatalogItemID utils.SixID `bson:"catalog_item_id" json:"catalogItemId"`
	Quantity      int         `bson:"quantity" json:"quantity"`
}

// Submission is one customer request. It is written once, atomically with its
// order when kind is ORDER, and never mutated or deleted afterwards.
type Submission struct {
	ID           utils.SixID      `bson:"_id,omitempty" json:"id,omitempty"`
	Kind         SubmissionKind   `bson:"kind" json:"kind"`
	CustomerName string           `bson:"customer_name" json:"customerName"`
	Email        string           `bson:"email" json:"email"`
	Phone        string           `bson:"phone" json:"phone"`
	Notes        string           `bson:"notes,omitempty" json:"notes,omitempty"`
	Items        []SubmissionItem `bson:"items" json:"items"`
	CreatedAt    time.Time        `bson:"created_at" json:"createdAt"`
}
