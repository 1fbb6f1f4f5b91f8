package upload

import "time"

// Upload kinds map one-to-one onto the upload endpoints and prefix the
// stored object key.
const (
	KindResume            = "resume"
	KindProfilePhoto      = "profile-photo"
	KindPaymentScreenshot = "payment-screenshot"
	KindQRCode            = "qr-code"
)

// Upload records one stored object per (email, kind); re-uploading
// replaces the row.
type Upload struct {
	ID          string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	Kind        string    `json:"kind" db:"kind"`
	ObjectKey   string    `json:"objectKey" db:"object_key"`
	MinioURL    string    `json:"minio_url" db:"minio_url"`
	Size        int64     `json:"size" db:"size"`
	ContentType string    `json:"contentType" db:"content_type"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
