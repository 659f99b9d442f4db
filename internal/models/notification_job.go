package models

import (
	"greendrake/storefront/internal/utils"
)

// NotificationJob is the payload of one queued unit of work: notify the
// customer about a committed submission. Exactly one job is enqueued per
// submission. Delivery is at-least-once; the delivery layer must tolerate
// being invoked more than once for the same submission.
type NotificationJob struct {
	SubmissionID  utils.SixID    `json:"submissionId"`
	Kind          SubmissionKind `json:"kind"`
	CustomerEmail string         `json:"customerEmail"`
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone,omitempty"`
}
