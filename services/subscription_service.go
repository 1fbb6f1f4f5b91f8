package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	qrcode "github.com/skip2/go-qrcode"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/subscription"
)

type SubscriptionService struct {
	db *pgxpool.Pool
}

func NewSubscriptionService(db *pgxpool.Pool) *SubscriptionService {
	return &SubscriptionService{db: db}
}

func (s *SubscriptionService) GetPlans(ctx context.Context) ([]*subscription.Plan, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, price, duration_months, max_conversations, is_active
		FROM subscription_plans
		WHERE is_active = TRUE
		ORDER BY duration_months ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plans: %w", err)
	}
	defer rows.Close()

	var plans []*subscription.Plan
	for rows.Next() {
		plan := &subscription.Plan{}
		err := rows.Scan(&plan.ID, &plan.Name, &plan.Price, &plan.DurationMonths, &plan.MaxConversations, &plan.IsActive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

// RequestSubscription creates a pending row after the duplicate
// pre-check. The response carries a payment QR encoding the manual
// transfer reference; the admin approves once the screenshot arrives.
func (s *SubscriptionService) RequestSubscription(ctx context.Context, req *subscription.RequestSubscription) (*subscription.UserSubscription, string, error) {
	// Only an approved subscription blocks a new request; an unapproved
	// pending row does not.
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_subscriptions
			WHERE user_id = $1 AND status IN ('active', 'pending') AND is_approved = TRUE
		)
	`, req.UserID).Scan(&exists)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing subscription: %w", err)
	}
	if exists {
		// Historically a 400, not a 409 - the SPA keys off the message.
		return nil, "", apperr.DuplicateWithStatus("You already have an active subscription", 400)
	}

	plan := &subscription.Plan{}
	err = s.db.QueryRow(ctx, `
		SELECT id, name, price, duration_months FROM subscription_plans WHERE id = $1 AND is_active = TRUE
	`, req.PlanID).Scan(&plan.ID, &plan.Name, &plan.Price, &plan.DurationMonths)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperr.NotFound("Subscription plan not found")
		}
		return nil, "", fmt.Errorf("failed to get plan: %w", err)
	}

	sub := &subscription.UserSubscription{
		ID:     uuid.New().String(),
		UserID: req.UserID,
		PlanID: req.PlanID,
		Status: subscription.StatusPending,
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO user_subscriptions (id, user_id, plan_id, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING created_at
	`, sub.ID, sub.UserID, sub.PlanID).Scan(&sub.CreatedAt)
	if err != nil {
		return nil, "", apperr.FromDB(err, "user not found")
	}

	qr, err := paymentQR(plan, sub.ID)
	if err != nil {
		// QR is a convenience; the request itself stands.
		log.Printf("SubscriptionService: failed to generate payment QR: %v", err)
	}

	return sub, qr, nil
}

// Approve moves a pending subscription to active. The three writes
// (subscription row, premium flag, audit stamps) run in one
// transaction so a crash cannot leave status=active with is_premium
// unset. Returns the owner's email for the notification mail.
func (s *SubscriptionService) Approve(ctx context.Context, subscriptionID, adminID string) (string, *subscription.UserSubscription, error) {
	if adminID == "" {
		return "", nil, apperr.Validation("adminId is required")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sub := &subscription.UserSubscription{}
	var durationMonths int
	err = tx.QueryRow(ctx, `
		SELECT us.id, us.user_id, us.plan_id, us.status, sp.duration_months
		FROM user_subscriptions us
		JOIN subscription_plans sp ON sp.id = us.plan_id
		WHERE us.id = $1
		FOR UPDATE OF us
	`, subscriptionID).Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status, &durationMonths)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, apperr.NotFound("Subscription not found")
		}
		return "", nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if sub.Status != subscription.StatusPending {
		return "", nil, apperr.Validation(fmt.Sprintf("Subscription is %s, only pending subscriptions can be approved", sub.Status))
	}

	now := time.Now()
	endDate := subscription.PeriodEnd(now, durationMonths)

	_, err = tx.Exec(ctx, `
		UPDATE user_subscriptions
		SET status = 'active', is_approved = TRUE, start_date = $2, end_date = $3, approved_by = $4, approved_at = $2
		WHERE id = $1
	`, subscriptionID, now, endDate, adminID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to approve subscription: %w", err)
	}

	var email string
	err = tx.QueryRow(ctx, `
		UPDATE users SET is_premium = TRUE, updated_at = NOW() WHERE id = $1
		RETURNING email
	`, sub.UserID).Scan(&email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to set premium flag: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	sub.Status = subscription.StatusActive
	sub.IsApproved = true
	sub.StartDate = &now
	sub.EndDate = &endDate
	sub.ApprovedBy = &adminID
	sub.ApprovedAt = &now

	log.Printf("SubscriptionService: %s approved by %s, active until %s", subscriptionID, adminID, endDate.Format(time.RFC3339))
	return email, sub, nil
}

func (s *SubscriptionService) Reject(ctx context.Context, subscriptionID, adminID, reason string) error {
	if adminID == "" {
		return apperr.Validation("adminId is required")
	}
	if reason == "" {
		return apperr.Validation("A rejection reason is required")
	}

	result, err := s.db.Exec(ctx, `
		UPDATE user_subscriptions
		SET status = 'rejected', approved_by = $2, approved_at = NOW(), rejection_reason = $3
		WHERE id = $1 AND status = 'pending'
	`, subscriptionID, adminID, reason)
	if err != nil {
		return fmt.Errorf("failed to reject subscription: %w", err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_subscriptions WHERE id = $1)`, subscriptionID).Scan(&exists)
		if !exists {
			return apperr.NotFound("Subscription not found")
		}
		return apperr.Validation("Only pending subscriptions can be rejected")
	}
	return nil
}

// Cancel ends the user's active subscription and clears is_premium
// unless another live subscription remains. Transactional for the same
// reason as Approve.
func (s *SubscriptionService) Cancel(ctx context.Context, userID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE user_subscriptions
		SET status = 'cancelled', end_date = NOW()
		WHERE user_id = $1 AND status = 'active'
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("No active subscription to cancel")
	}

	var stillPremium bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_subscriptions
			WHERE user_id = $1 AND status = 'active' AND end_date > NOW()
		)
	`, userID).Scan(&stillPremium)
	if err != nil {
		return fmt.Errorf("failed to recheck premium: %w", err)
	}

	if !stillPremium {
		_, err = tx.Exec(ctx, `UPDATE users SET is_premium = FALSE, updated_at = NOW() WHERE id = $1`, userID)
		if err != nil {
			return fmt.Errorf("failed to clear premium flag: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// CheckPremium recomputes premium standing from subscription rows and
// self-heals the stored flag if it drifted.
func (s *SubscriptionService) CheckPremium(ctx context.Context, userID string) (bool, *subscription.UserSubscription, error) {
	var stored bool
	err := s.db.QueryRow(ctx, `SELECT is_premium FROM users WHERE id = $1`, userID).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil, apperr.NotFound("User not found")
		}
		return false, nil, fmt.Errorf("failed to get user: %w", err)
	}

	sub := &subscription.UserSubscription{}
	err = s.db.QueryRow(ctx, `
		SELECT id, user_id, plan_id, status, is_approved, start_date, end_date, approved_by, approved_at, rejection_reason, created_at
		FROM user_subscriptions
		WHERE user_id = $1 AND status = 'active' AND end_date > NOW()
		ORDER BY end_date DESC
		LIMIT 1
	`, userID).Scan(
		&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status, &sub.IsApproved,
		&sub.StartDate, &sub.EndDate, &sub.ApprovedBy, &sub.ApprovedAt,
		&sub.RejectionReason, &sub.CreatedAt,
	)

	actual := true
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return false, nil, fmt.Errorf("failed to get subscription: %w", err)
		}
		actual = false
		sub = nil
	}

	if actual != stored {
		log.Printf("SubscriptionService: healing is_premium for %s (%v -> %v)", userID, stored, actual)
		_, err = s.db.Exec(ctx, `UPDATE users SET is_premium = $2, updated_at = NOW() WHERE id = $1`, userID, actual)
		if err != nil {
			return false, nil, fmt.Errorf("failed to heal premium flag: %w", err)
		}
	}

	return actual, sub, nil
}

// paymentQR encodes the manual transfer reference as a base64 PNG.
func paymentQR(plan *subscription.Plan, subscriptionID string) (string, error) {
	payload := fmt.Sprintf("skillconnect://pay?plan=%s&amount=%.2f&ref=%s", plan.Name, plan.Price, subscriptionID)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
