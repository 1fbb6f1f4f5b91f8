package subscription

import "time"

// Subscription row states. A row starts pending and moves to exactly
// one of active/rejected by admin action; only active rows can be
// cancelled by the user.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type Plan struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Price            float64   `json:"price" db:"price"`
	DurationMonths   int       `json:"durationMonths" db:"duration_months"`
	MaxConversations int       `json:"maxConversations" db:"max_conversations"`
	IsActive         bool      `json:"isActive" db:"is_active"`
}

type UserSubscription struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"userId" db:"user_id"`
	PlanID          string     `json:"planId" db:"plan_id"`
	Status          string     `json:"status" db:"status"`
	IsApproved      bool       `json:"isApproved" db:"is_approved"`
	StartDate       *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate         *time.Time `json:"endDate,omitempty" db:"end_date"`
	ApprovedBy      *string    `json:"approvedBy,omitempty" db:"approved_by"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty" db:"approved_at"`
	RejectionReason *string    `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

type RequestSubscription struct {
	UserID string `json:"userId" validate:"required"`
	PlanID string `json:"planId" validate:"required"`
}

type RejectRequest struct {
	AdminID string `json:"adminId" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
}

// PeriodEnd computes when a subscription approved at start lapses.
// Canonical rule: start plus the plan's duration in calendar months.
func PeriodEnd(start time.Time, durationMonths int) time.Time {
	return start.AddDate(0, durationMonths, 0)
}
