package donation

import "time"

const (
	TypeOrphan = "orphan"
	TypeOldAge = "old-age"
)

// Cause is a seeded orphanage or old-age home listing with the payment
// details donors transfer to directly.
type Cause struct {
	ID          string `json:"id" db:"id"`
	Type        string `json:"type" db:"type"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Location    string `json:"location" db:"location"`
	ImageURL    string `json:"imageUrl,omitempty" db:"image_url"`
	UPIID       string `json:"upiId,omitempty" db:"upi_id"`
	IsActive    bool   `json:"isActive" db:"is_active"`
}

type Donation struct {
	ID            string    `json:"id" db:"id"`
	Type          string    `json:"type" db:"type"`
	CauseID       string    `json:"causeId" db:"cause_id"`
	Amount        float64   `json:"amount" db:"amount"`
	DonorName     string    `json:"donorName" db:"donor_name"`
	DonorEmail    string    `json:"donorEmail" db:"donor_email"`
	DonorPhone    string    `json:"donorPhone,omitempty" db:"donor_phone"`
	ScreenshotURL string    `json:"screenshotUrl,omitempty" db:"screenshot_url"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

type DonateRequest struct {
	Type          string  `json:"type" validate:"required,oneof=orphan old-age"`
	CauseID       string  `json:"causeId" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	DonorName     string  `json:"donorName" validate:"required"`
	DonorEmail    string  `json:"donorEmail" validate:"required,email"`
	DonorPhone    string  `json:"donorPhone,omitempty"`
	ScreenshotURL string  `json:"screenshotUrl,omitempty"`
}
