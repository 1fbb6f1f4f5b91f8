package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/message"
)

type MessageService struct {
	db *pgxpool.Pool
}

func NewMessageService(db *pgxpool.Pool) *MessageService {
	return &MessageService{db: db}
}

// SendUserMessage runs the conversation slot check, then writes the
// message row and upserts both directions of the conversation pair.
// The check and the writes are deliberately not wrapped in a lock; two
// near-simultaneous first sends from the same free user can both pass,
// which is accepted at this traffic level.
func (s *MessageService) SendUserMessage(ctx context.Context, req *message.SendMessageRequest) (*message.Message, error) {
	if req.SenderID == req.ReceiverID {
		return nil, apperr.Validation("cannot message yourself")
	}

	var isPremium bool
	err := s.db.QueryRow(ctx, `SELECT is_premium FROM users WHERE id = $1`, req.SenderID).Scan(&isPremium)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Sender not found")
		}
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}

	var receiverExists bool
	err = s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, req.ReceiverID).Scan(&receiverExists)
	if err != nil {
		return nil, fmt.Errorf("failed to check receiver: %w", err)
	}
	if !receiverExists {
		return nil, apperr.NotFound("Receiver not found")
	}

	currentChats, err := s.countActivePartners(ctx, req.SenderID)
	if err != nil {
		return nil, err
	}

	existingPartner, err := s.isExistingPartner(ctx, req.SenderID, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	if !message.SlotAllowed(existingPartner, isPremium, currentChats) {
		log.Printf("MessageService: free user %s hit conversation cap (%d)", req.SenderID, currentChats)
		return nil, apperr.Policy("Free plan conversation limit reached. Upgrade to premium to chat with more people.", map[string]any{
			"currentChats": currentChats,
			"limit":        message.FreeConversationLimit,
		})
	}

	msg := &message.Message{
		ID:         uuid.New().String(),
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, msg.ID, msg.SenderID, msg.ReceiverID, msg.Content).Scan(&msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	// Idempotent upsert, safe to call on every send. Both directions
	// are kept so either user's conversation list is one indexed scan.
	for _, pair := range [][2]string{{req.SenderID, req.ReceiverID}, {req.ReceiverID, req.SenderID}} {
		_, err = s.db.Exec(ctx, `
			INSERT INTO conversations (id, user_id, contact_id, last_message, last_message_time, is_active)
			VALUES ($1, $2, $3, $4, NOW(), TRUE)
			ON CONFLICT (user_id, contact_id)
			DO UPDATE SET last_message = $4, last_message_time = NOW(), is_active = TRUE
		`, uuid.New().String(), pair[0], pair[1], req.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert conversation: %w", err)
		}
	}

	_, err = s.db.Exec(ctx, `UPDATE users SET message_count = message_count + 1 WHERE id = $1`, req.SenderID)
	if err != nil {
		log.Printf("MessageService: failed to bump message_count for %s: %v", req.SenderID, err)
	}

	return msg, nil
}

// GetMessages returns the two-way history oldest first and marks the
// caller's incoming messages read.
func (s *MessageService) GetMessages(ctx context.Context, senderID, receiverID string) ([]*message.Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	defer rows.Close()

	var messages []*message.Message
	for rows.Next() {
		msg := &message.Message{}
		err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.IsRead, &msg.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	_, err = s.db.Exec(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE sender_id = $2 AND receiver_id = $1 AND is_read = FALSE
	`, senderID, receiverID)
	if err != nil {
		log.Printf("MessageService: failed to mark messages read: %v", err)
	}

	return messages, nil
}

func (s *MessageService) GetConversations(ctx context.Context, userID string) ([]*message.Conversation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.user_id, c.contact_id, u.full_name, c.last_message, c.last_message_time, c.is_active
		FROM conversations c
		JOIN users u ON u.id = c.contact_id
		WHERE c.user_id = $1 AND c.is_active = TRUE
		ORDER BY c.last_message_time DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*message.Conversation
	for rows.Next() {
		conv := &message.Conversation{}
		err := rows.Scan(&conv.ID, &conv.UserID, &conv.ContactID, &conv.ContactName, &conv.LastMessage, &conv.LastMessageTime, &conv.IsActive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	return conversations, nil
}

func (s *MessageService) countActivePartners(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT contact_id) FROM conversations
		WHERE user_id = $1 AND is_active = TRUE
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return count, nil
}

func (s *MessageService) isExistingPartner(ctx context.Context, userID, contactID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM conversations
			WHERE user_id = $1 AND contact_id = $2 AND is_active = TRUE
		)
	`, userID, contactID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check conversation: %w", err)
	}
	return exists, nil
}

// PurgeOlderThan deletes messages past the retention window. Called by
// the retention scheduler.
func (s *MessageService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM messages WHERE created_at < NOW() - ($1 * INTERVAL '1 day')`, days)
	if err != nil {
		return 0, fmt.Errorf("failed to purge messages: %w", err)
	}
	return result.RowsAffected(), nil
}
