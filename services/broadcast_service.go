package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/notification"
	"skillConnectAPI/internal/quota"
	"skillConnectAPI/internal/user"
)

const broadcastWorkers = 5

// Recipient is one resolved target of a broadcast.
type Recipient struct {
	UserID string
	Email  string
}

// BroadcastService fans one admin message out to every user matching a
// status filter. Notifications and emails are two decoupled side
// effects of the same dispatch: the notification row is written per
// recipient whether or not their email goes through.
type BroadcastService struct {
	db       *pgxpool.Pool
	email    *EmailService
	batchCap int
}

func NewBroadcastService(db *pgxpool.Pool, email *EmailService, batchCap int) *BroadcastService {
	if batchCap <= 0 {
		batchCap = quota.DefaultBatchLimit
	}
	return &BroadcastService{db: db, email: email, batchCap: batchCap}
}

func (s *BroadcastService) Broadcast(ctx context.Context, req *notification.BroadcastRequest) (*notification.BroadcastResult, error) {
	if req.Status != "all" && !user.ValidStatus(req.Status) {
		return nil, apperr.Validation("status must be employed, graduated, pursuing or all")
	}

	remaining, err := s.email.Remaining(ctx)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		// Fail fast: no emails attempted, no rows written.
		log.Printf("BroadcastService: monthly email limit reached, skipping dispatch")
		return &notification.BroadcastResult{
			Success: true,
			Message: "Monthly email limit reached",
			Sent:    0,
			Total:   0,
		}, nil
	}

	recipients, err := s.resolveRecipients(ctx, req.Status)
	if err != nil {
		return nil, err
	}

	batch := recipients[:quota.BatchSize(len(recipients), remaining, s.batchCap)]

	for _, r := range batch {
		_, err := s.db.Exec(ctx, `
			INSERT INTO notifications (id, user_id, title, content)
			VALUES ($1, $2, $3, $4)
		`, uuid.New().String(), r.UserID, req.Title, req.Content)
		if err != nil {
			log.Printf("BroadcastService: failed to insert notification for %s: %v", r.UserID, err)
		}
	}

	sent := s.fanOut(ctx, batch, func(r Recipient) error {
		return s.email.SendLogged(ctx, r.Email, req.Title, req.Content)
	})

	log.Printf("BroadcastService: dispatched to %d/%d recipients (matched %d, remaining quota %d)",
		sent, len(batch), len(recipients), remaining)

	return &notification.BroadcastResult{
		Success: true,
		Message: fmt.Sprintf("Broadcast sent to %d users", len(batch)),
		Sent:    sent,
		Total:   len(batch),
	}, nil
}

func (s *BroadcastService) resolveRecipients(ctx context.Context, status string) ([]Recipient, error) {
	query := `SELECT id, email FROM users`
	args := []interface{}{}
	if status != "all" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.UserID, &r.Email); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		recipients = append(recipients, r)
	}
	return recipients, nil
}

// fanOut runs send over a small worker pool and returns how many
// succeeded. Per-recipient failures are logged by the ledger, not
// retried.
func (s *BroadcastService) fanOut(ctx context.Context, batch []Recipient, send func(Recipient) error) int {
	jobs := make(chan Recipient)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	workers := broadcastWorkers
	if len(batch) < workers {
		workers = len(batch)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				if err := send(r); err != nil {
					log.Printf("BroadcastService: email to %s failed: %v", r.Email, err)
					continue
				}
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	for _, r := range batch {
		jobs <- r
	}
	close(jobs)
	wg.Wait()

	return sent
}

// GetNotifications returns a user's feed newest first.
func (s *BroadcastService) GetNotifications(ctx context.Context, userID string) ([]*notification.Notification, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, title, content, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n := &notification.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (s *BroadcastService) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
