package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greendrake/storefront/internal/config"
	"greendrake/storefront/internal/models"
	"greendrake/storefront/internal/utils"
)

const (
	submissionsCollection = "submissions"
	ordersCollection      = "orders"
)

// NotificationEnqueuer admits a notification job into the dispatch queue. The
// concrete implementation is the asynq-backed queue client; tests substitute
// a mock.
type NotificationEnqueuer interface {
	EnqueueNotification(ctx context.Context, job models.NotificationJob) error
}

// CreateSubmissionInput carries one validated create request. Field-level
// shape checks (email format, lengths) happen in the HTTP layer; this service
// re-checks only the domain rules.
type CreateSubmissionInput struct {
	Kind            models.SubmissionKind
	CustomerName    string
	Email           string
	Phone           string
	Notes           string
	Items           []models.SubmissionItem
	DeliveryAddress string
}

// SubmissionDetail pairs a submission with its order, when one exists.
type SubmissionDetail struct {
	Submission models.Submission `json:"submission"`
	Order      *models.Order     `json:"order,omitempty"`
}

// SubmissionFilter narrows admin listings.
type SubmissionFilter struct {
	Kind   *models.SubmissionKind
	Status *models.OrderStatus
}

// ISubmissionService defines the interface for submission operations.
type ISubmissionService interface {
	CreateSubmission(ctx context.Context, input CreateSubmissionInput) (*models.Submission, error)
	GetSubmissions(ctx context.Context, filter SubmissionFilter) ([]SubmissionDetail, error)
	GetSubmissionByID(ctx context.Context, id utils.SixID) (*SubmissionDetail, error)
	UpdateOrderStatus(ctx context.Context, submissionID utils.SixID, status models.OrderStatus) (*models.Order, error)
	ExportCSV(ctx context.Context) (string, error)
}

// submissionService implements ISubmissionService.
type submissionService struct {
	db    *mongo.Database
	cfg   *config.Config
	queue NotificationEnqueuer
}

// NewSubmissionService creates a new SubmissionService. The queue client is
// injected; it is owned by main and shared across requests.
func NewSubmissionService(db *mongo.Database, cfg *config.Config, queue NotificationEnqueuer) ISubmissionService {
	return &submissionService{db: db, cfg: cfg, queue: queue}
}

// CreateSubmission validates the request, persists the submission (and, for
// orders, the order) in one transaction, and enqueues a notification job
// after the commit. The ordering is deliberate: a job must never exist for a
// submission that did not commit, while a committed submission whose enqueue
// failed is merely a lost notification, which is tolerated and logged.
func (s *submissionService) CreateSubmission(ctx context.Context, input CreateSubmissionInput) (*models.Submission, error) {
	if len(input.Items) == 0 {
		return nil, &ValidationError{Message: "submission must contain at least one item"}
	}
	if input.Kind == models.KindOrder && strings.TrimSpace(input.DeliveryAddress) == "" {
		return nil, &ValidationError{Message: "delivery address is required for orders"}
	}

	now := time.Now().UTC()
	submission := &models.Submission{
		ID:           utils.NewSixID(),
		Kind:         input.Kind,
		CustomerName: input.CustomerName,
		Email:        input.Email,
		Phone:        input.Phone,
		Notes:        input.Notes,
		Items:        input.Items,
		CreatedAt:    now,
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.db.Collection(submissionsCollection).InsertOne(sc, submission); err != nil {
			return nil, err
		}
		if input.Kind == models.KindOrder {
			order := &models.Order{
				ID:              utils.NewSixID(),
				SubmissionID:    submission.ID,
				DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
				Status:          models.StatusPlaced,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if _, err := s.db.Collection(ordersCollection).InsertOne(sc, order); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		// Full rollback: no submission, no order, and no job is enqueued.
		return nil, fmt.Errorf("failed to commit submission: %w", err)
	}

	job := models.NotificationJob{
		SubmissionID:  submission.ID,
		Kind:          submission.Kind,
		CustomerEmail: submission.Email,
		CustomerName:  submission.CustomerName,
		CustomerPhone: submission.Phone,
	}
	if err := s.queue.EnqueueNotification(ctx, job); err != nil {
		log.Printf("WARNING: submission %s committed but notification enqueue failed: %v",
			submission.ID.String(), err)
	}

	return submission, nil
}

// GetSubmissions lists submissions newest first, optionally filtered by kind
// and/or order status.
func (s *submissionService) GetSubmissions(ctx context.Context, filter SubmissionFilter) ([]SubmissionDetail, error) {
	query := bson.M{}
	if filter.Kind != nil {
		query["kind"] = *filter.Kind
	}

	if filter.Status != nil {
		// Resolve the status filter through the orders collection first.
		ids, err := s.submissionIDsWithStatus(ctx, *filter.Status)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []SubmissionDetail{}, nil
		}
		query["_id"] = bson.M{"$in": ids}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(submissionsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var submissions []models.Submission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}

	return s.attachOrders(ctx, submissions)
}

// GetSubmissionByID returns one submission with its order, if any.
func (s *submissionService) GetSubmissionByID(ctx context.Context, id utils.SixID) (*SubmissionDetail, error) {
	var submission models.Submission
	err := s.db.Collection(submissionsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&submission)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &NotFoundError{Message: "submission not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}

	detail := &SubmissionDetail{Submission: submission}
	var order models.Order
	err = s.db.Collection(ordersCollection).FindOne(ctx, bson.M{"submission_id": id}).Decode(&order)
	if err == nil {
		detail.Order = &order
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return detail, nil
}

// UpdateOrderStatus sets the order status for an ORDER submission. Any status
// may replace any other.
func (s *submissionService) UpdateOrderStatus(ctx context.Context, submissionID utils.SixID, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown order status: %s", status)}
	}

	detail, err := s.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if detail.Submission.Kind != models.KindOrder {
		return nil, &ValidationError{Message: "only orders can have status updates"}
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err = s.db.Collection(ordersCollection).
		FindOneAndUpdate(ctx, bson.M{"submission_id": submissionID}, update, opts).
		Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &NotFoundError{Message: "order not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &order, nil
}

// ExportCSV renders all submissions as CSV for the admin export endpoint.
func (s *submissionService) ExportCSV(ctx context.Context) (string, error) {
	details, err := s.GetSubmissions(ctx, SubmissionFilter{})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"ID", "Kind", "Customer", "Email", "Phone", "Items", "Status", "Created At"}); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, d := range details {
		status := "N/A"
		if d.Order != nil {
			status = string(d.Order.Status)
		}
		record := []string{
			d.Submission.ID.String(),
			string(d.Submission.Kind),
			d.Submission.CustomerName,
			d.Submission.Email,
			d.Submission.Phone,
			strconv.Itoa(len(d.Submission.Items)),
			status,
			d.Submission.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	return sb.String(), nil
}

// submissionIDsWithStatus lists submission IDs whose order has the status.
func (s *submissionService) submissionIDsWithStatus(ctx context.Context, status models.OrderStatus) ([]utils.SixID, error) {
	cursor, err := s.db.Collection(ordersCollection).Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by status: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	ids := make([]utils.SixID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.SubmissionID)
	}
	return ids, nil
}

// attachOrders loads the orders for the given submissions in one query.
func (s *submissionService) attachOrders(ctx context.Context, submissions []models.Submission) ([]SubmissionDetail, error) {
	details := make([]SubmissionDetail, len(submissions))
	orderIDs := make([]utils.SixID, 0, len(submissions))
	for i, sub := range submissions {
		details[i] = SubmissionDetail{Submission: sub}
		if sub.Kind == models.KindOrder {
			orderIDs = append(orderIDs, sub.ID)
		}
	}
	if len(orderIDs) == 0 {
		return details, nil
	}

	cursor, err := s.db.Collection(ordersCollection).Find(ctx, bson.M{"submission_id": bson.M{"$in": orderIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	bySubmission := make(map[utils.SixID]*models.Order, len(orders))
	for i := range orders {
		bySubmission[orders[i].SubmissionID] = &orders[i]
	}
	for i := range details {
		details[i].Order = bySubmission[details[i].Submission.ID]
	}
	return details, nil
}
