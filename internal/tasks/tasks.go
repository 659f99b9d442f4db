package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hibiken/asynq"

	"greendrake/storefront/internal/config"
	"greendrake/storefront/internal/email"
	"greendrake/storefront/internal/services"
	"greendrake/storefront/internal/whatsapp"
)

// Task types.
const (
	TypeNotificationSend = "notification:send"
	TypeImageProcess     = "image:process"
)

// Queue names. Notifications get the higher weight so a backlog of image
// processing never starves confirmation delivery.
const (
	QueueNotifications = "notifications"
	QueueImages        = "images"
)

// RedisOpt builds the asynq Redis connection options from the app config.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// RetryDelay returns the backoff schedule for failed jobs: the n-th retry
// (0-based) sleeps base × 2^n, i.e. the delay before attempt k+1 is
// base × 2^(k-1) for attempt number k.
func RetryDelay(base time.Duration) asynq.RetryDelayFunc {
	return func(n int, e error, t *asynq.Task) time.Duration {
		return base << n
	}
}

// TaskProcessor holds the dependencies needed by task handlers.
type TaskProcessor struct {
	cfg            *config.Config
	emailSender    email.Sender
	whatsappSender whatsapp.Sender
	catalogService services.ICatalogService
	s3Client       *s3.Client
}

// NewTaskProcessor creates a TaskProcessor.
func NewTaskProcessor(
	cfg *config.Config,
	emailSender email.Sender,
	whatsappSender whatsapp.Sender,
	catalogService services.ICatalogService,
	s3Client *s3.Client,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:            cfg,
		emailSender:    emailSender,
		whatsappSender: whatsappSender,
		catalogService: catalogService,
		s3Client:       s3Client,
	}
}

// SetupServer configures an asynq server for a worker process. The flags
// select which queues this worker consumes; a worker never dequeues a task
// type it has no handler for. Concurrency bounds the number of simultaneously
// in-flight jobs; asynq's lease mechanism makes jobs held by a crashed worker
// re-claimable rather than stuck in-flight.
func SetupServer(cfg *config.Config, consumeNotifications, consumeImages bool) *asynq.Server {
	queues := make(map[string]int)
	if consumeNotifications {
		queues[QueueNotifications] = 6
	}
	if consumeImages {
		queues[QueueImages] = 3
	}

	return asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Concurrency:    cfg.NotifyConcurrency,
			Queues:         queues,
			RetryDelayFunc: RetryDelay(cfg.NotifyBackoffBase),
			ErrorHandler:   asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				fmt.Printf("[task error] type=%s payload=%s err=%v\n", task.Type(), task.Payload(), err)
			}),
		},
	)
}

// Mux registers the handlers this worker process should run.
func (p *TaskProcessor) Mux(handleNotifications, handleImages bool) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	if handleNotifications {
		mux.HandleFunc(TypeNotificationSend, p.HandleNotificationSendTask)
		fmt.Println("Registered notification task handler.")
	}
	if handleImages {
		mux.HandleFunc(TypeImageProcess, p.HandleImageProcessTask)
		fmt.Println("Registered image processing task handler.")
	}
	return mux
}
