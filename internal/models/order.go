package models

import (
	"time"

	"greendrake/storefront/internal/utils"
)

// OrderStatus tracks fulfillment of an order.
type OrderStatus string

const (
	StatusPlaced     OrderStatus = "PLACED"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid reports whether s is a known order status. Any valid status may be
// set from any other; transitions are admin-driven and unconstrained.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPlaced, StatusConfirmed, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is the fulfillment record attached to an ORDER submission. Exactly one
// exists per ORDER submission, created in the same transaction.
type Order struct {
	ID              utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
	SubmissionID    utils.SixID `bson:"submission_id" json:"submissionId"`
	DeliveryAddress string      `bson:"delivery_address" json:"deliveryAddress"`
	Status          OrderStatus `bson:"status" json:"status"`
	CreatedAt       time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `bson:"updated_at" json:"updatedAt"`
}
