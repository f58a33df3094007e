package task

import (
	"context"
	"log"
	"time"

	"souq_dev_v1/internal/repository"

	"github.com/robfig/cron/v3"
)

// ==================== CartCleanupTask ====================

// CartCleanupTask periodically removes anonymous carts that have been idle
// past the TTL. Carts owned by registered users are never touched.
type CartCleanupTask struct {
	cartRepo repository.CartRepository
	cron     *cron.Cron

	ttl time.Duration
}

// NewCartCleanupTask creates the cleanup task with a 30-day TTL.
func NewCartCleanupTask(cartRepo repository.CartRepository) *CartCleanupTask {
	return &CartCleanupTask{
		cartRepo: cartRepo,
		cron:     cron.New(cron.WithSeconds()),
		ttl:      30 * 24 * time.Hour,
	}
}

// SetTTL overrides the idle cutoff.
func (t *CartCleanupTask) SetTTL(ttl time.Duration) {
	t.ttl = ttl
}

// Start schedules the cleanup hourly, with one run at boot.
func (t *CartCleanupTask) Start() {
	go t.runOnce()

	_, err := t.cron.AddFunc("0 0 * * * *", t.runOnce)
	if err != nil {
		log.Printf("[CartCleanupTask] failed to schedule: %v", err)
		return
	}

	t.cron.Start()
	log.Println("[CartCleanupTask] started (hourly)")
}

// Stop stops the schedule and waits for a running cleanup to finish.
func (t *CartCleanupTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[CartCleanupTask] stopped")
}

func (t *CartCleanupTask) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := t.cartRepo.DeleteStaleAnonymous(ctx, time.Now().Add(-t.ttl))
	if err != nil {
		log.Printf("[CartCleanupTask] cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[CartCleanupTask] removed %d stale anonymous carts", removed)
	}
}
