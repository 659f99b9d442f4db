package tasks

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/hibiken/asynq"

	"greendrake/storefront/internal/config"
)

// inspector is the slice of asynq.Inspector the janitor needs.
type inspector interface {
	ListCompletedTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	ListArchivedTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	DeleteTask(queue, id string) error
}

// Janitor bounds the retention of retired notification jobs. Completed jobs
// are kept for observability (newest N, max age); jobs in the dead bucket
// (asynq's archived set) are kept longer but likewise bounded. asynq itself
// purges completed jobs by age; the count bounds and the tighter dead-bucket
// policy are enforced here.
type Janitor struct {
	insp inspector
	cfg  *config.Config
	now  func() time.Time
}

// NewJanitor creates a Janitor connected to the broker.
func NewJanitor(cfg *config.Config) *Janitor {
	return &Janitor{
		insp: asynq.NewInspector(RedisOpt(cfg)),
		cfg:  cfg,
		now:  time.Now,
	}
}

// Run sweeps at the configured interval until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.NotifyJanitorInterval)
	defer ticker.Stop()

	log.Printf("Notification janitor running (interval %v)", j.cfg.NotifyJanitorInterval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Notification janitor stopped.")
			return
		case <-ticker.C:
			if err := j.Sweep(); err != nil {
				log.Printf("Janitor sweep error: %v", err)
			}
		}
	}
}

// Sweep applies both retention policies once.
func (j *Janitor) Sweep() error {
	completed, err := listAllTasks(j.insp.ListCompletedTasks, QueueNotifications)
	if err != nil {
		return fmt.Errorf("failed to list completed tasks: %w", err)
	}
	completedAt := func(t *asynq.TaskInfo) time.Time { return t.CompletedAt }
	if err := j.trim(completed, completedAt, j.cfg.NotifyCompletedMaxCount, j.cfg.NotifyCompletedMaxAge); err != nil {
		return err
	}

	dead, err := listAllTasks(j.insp.ListArchivedTasks, QueueNotifications)
	if err != nil {
		return fmt.Errorf("failed to list archived tasks: %w", err)
	}
	failedAt := func(t *asynq.TaskInfo) time.Time { return t.LastFailedAt }
	return j.trim(dead, failedAt, j.cfg.NotifyDeadMaxCount, j.cfg.NotifyDeadMaxAge)
}

// trim deletes every task beyond the newest maxCount or older than maxAge,
// whichever bites first.
func (j *Janitor) trim(infos []*asynq.TaskInfo, ts func(*asynq.TaskInfo) time.Time, maxCount int, maxAge time.Duration) error {
	sort.Slice(infos, func(a, b int) bool {
		return ts(infos[a]).After(ts(infos[b]))
	})

	cutoff := j.now().Add(-maxAge)
	for i, info := range infos {
		if i < maxCount && !ts(info).Before(cutoff) {
			continue
		}
		if err := j.insp.DeleteTask(info.Queue, info.ID); err != nil {
			return fmt.Errorf("failed to delete task %s: %w", info.ID, err)
		}
	}
	return nil
}

// listAllTasks paginates through a task listing.
func listAllTasks(list func(string, ...asynq.ListOption) ([]*asynq.TaskInfo, error), queue string) ([]*asynq.TaskInfo, error) {
	const pageSize = 100
	var all []*asynq.TaskInfo
	for page := 1; ; page++ {
		infos, err := list(queue, asynq.Page(page), asynq.PageSize(pageSize))
		if err != nil {
			return nil, err
		}
		all = append(all, infos...)
		if len(infos) < pageSize {
			return all, nil
		}
	}
}
