package user

import "time"

// Career status values. Kept as free strings in the DB; these are the
// only values signup accepts.
const (
	StatusEmployed  = "employed"
	StatusGraduated = "graduated"
	StatusPursuing  = "pursuing"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"fullName" db:"full_name"`
	Status       string    `json:"status" db:"status"`
	Role         string    `json:"role" db:"role"`
	Headline     string    `json:"headline,omitempty" db:"headline"`
	Location     string    `json:"location,omitempty" db:"location"`
	PhotoURL     string    `json:"photoUrl,omitempty" db:"photo_url"`
	IsPremium    bool      `json:"isPremium" db:"is_premium"`
	MessageCount int       `json:"messageCount" db:"message_count"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

func ValidStatus(s string) bool {
	return s == StatusEmployed || s == StatusGraduated || s == StatusPursuing
}
