package message

import "time"

// FreeConversationLimit caps distinct active conversation partners for
// non-premium users. Premium users are unbounded.
const FreeConversationLimit = 5

type Message struct {
	ID         string    `json:"id" db:"id"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	ReceiverID string    `json:"receiverId" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	IsRead     bool      `json:"isRead" db:"is_read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Conversation is one direction of a (user, contact) pair. Both
// directions are upserted on every send so either side's list query is
// a single indexed scan.
type Conversation struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"userId" db:"user_id"`
	ContactID       string    `json:"contactId" db:"contact_id"`
	ContactName     string    `json:"contactName,omitempty"`
	LastMessage     string    `json:"lastMessage" db:"last_message"`
	LastMessageTime time.Time `json:"lastMessageTime" db:"last_message_time"`
	IsActive        bool      `json:"isActive" db:"is_active"`
}

type SendMessageRequest struct {
	SenderID   string `json:"senderId" validate:"required"`
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

// SlotAllowed decides whether a sender may open (or reuse) a
// conversation slot. An existing partner never consumes a new slot;
// premium senders are never capped. The check is advisory only: two
// near-simultaneous first sends can both pass before either upsert
// commits, which is accepted at this traffic level.
func SlotAllowed(existingPartner, isPremium bool, currentChats int) bool {
	if existingPartner || isPremium {
		return true
	}
	return currentChats < FreeConversationLimit
}
