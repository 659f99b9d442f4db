package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"greendrake/storefront/internal/config"
	"greendrake/storefront/internal/models"
)

// QueueUnavailableError reports that a job could not be admitted to the
// broker. For notifications this is logged and swallowed by the caller: the
// business record has already committed and must not be rolled back over a
// lost notification.
type QueueUnavailableError struct {
	Err error
}

func (e *QueueUnavailableError) Error() string {
	return fmt.Sprintf("notification queue unavailable: %v", e.Err)
}

func (e *QueueUnavailableError) Unwrap() error {
	return e.Err
}

// ImageTaskPayload is the payload of an image normalization task.
type ImageTaskPayload struct {
	S3Key         string `json:"s3_key"`
	CatalogItemID string `json:"catalog_item_id"`
}

// Queue is the producer-side client of the dispatch queue. One instance is
// constructed at startup, injected where needed, and closed on shutdown.
type Queue struct {
	client *asynq.Client
	cfg    *config.Config
}

// NewQueue creates the queue client.
func NewQueue(cfg *config.Config) *Queue {
	return &Queue{
		client: asynq.NewClient(RedisOpt(cfg)),
		cfg:    cfg,
	}
}

// EnqueueNotification admits one notification job in pending state. The job
// gets the configured attempt budget (asynq counts retries after the first
// attempt, hence the -1), a per-attempt time bound, and a completed-retention
// age after which asynq purges the retired job.
func (q *Queue) EnqueueNotification(ctx context.Context, job models.NotificationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal notification job: %w", err)
	}

	task := asynq.NewTask(TypeNotificationSend, payload)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(q.cfg.NotifyMaxAttempts-1),
		asynq.Timeout(q.cfg.NotifyDeliveryTimeout),
		asynq.Retention(q.cfg.NotifyCompletedMaxAge),
	)
	if err != nil {
		return &QueueUnavailableError{Err: err}
	}

	fmt.Printf("Enqueued notification job %s for submission %s\n", info.ID, job.SubmissionID.String())
	return nil
}

// EnqueueImageProcess admits an image normalization job.
func (q *Queue) EnqueueImageProcess(ctx context.Context, s3Key, catalogItemID string) error {
	payload, err := json.Marshal(ImageTaskPayload{S3Key: s3Key, CatalogItemID: catalogItemID})
	if err != nil {
		return fmt.Errorf("failed to marshal image task payload: %w", err)
	}

	task := asynq.NewTask(TypeImageProcess, payload)
	if _, err := q.client.EnqueueContext(ctx, task, asynq.Queue(QueueImages)); err != nil {
		return &QueueUnavailableError{Err: err}
	}
	return nil
}

// Close releases the underlying broker connection.
func (q *Queue) Close() error {
	return q.client.Close()
}
