package notification

import "time"

// Email attempt outcomes recorded in email_logs.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type EmailLog struct {
	ID        string    `json:"id" db:"id"`
	Service   string    `json:"service" db:"service"`
	Recipient string    `json:"recipient" db:"recipient"`
	Subject   string    `json:"subject" db:"subject"`
	Status    string    `json:"status" db:"status"`
	Error     string    `json:"error,omitempty" db:"error"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// BroadcastRequest targets every user whose career status matches
// Status, or all users when Status is "all".
type BroadcastRequest struct {
	AdminID string `json:"adminId" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

type BroadcastResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Sent    int    `json:"sent"`
	Total   int    `json:"total"`
}
