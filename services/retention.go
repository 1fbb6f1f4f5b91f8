package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionWorker purges messages past the retention window on a
// schedule. Unlike a bare time.Ticker it has an observable lifecycle:
// Start registers the job, Stop waits for a running purge to finish.
type RetentionWorker struct {
	messages *MessageService
	days     int
	cron     *cron.Cron
}

func NewRetentionWorker(messages *MessageService, days int) *RetentionWorker {
	return &RetentionWorker{
		messages: messages,
		days:     days,
		cron:     cron.New(),
	}
}

// Start schedules the nightly purge. No-op when retention is disabled
// (days <= 0).
func (w *RetentionWorker) Start() error {
	if w.days <= 0 {
		log.Println("RetentionWorker: retention disabled")
		return nil
	}

	_, err := w.cron.AddFunc("@daily", w.purge)
	if err != nil {
		return err
	}
	w.cron.Start()
	log.Printf("RetentionWorker: purging messages older than %d days, daily", w.days)
	return nil
}

// Stop halts scheduling and blocks until an in-flight purge returns.
func (w *RetentionWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	log.Println("RetentionWorker: stopped")
}

func (w *RetentionWorker) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := w.messages.PurgeOlderThan(ctx, w.days)
	if err != nil {
		log.Printf("RetentionWorker: purge failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("RetentionWorker: purged %d messages", purged)
	}
}
