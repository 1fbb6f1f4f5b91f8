package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		full_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pursuing',
		role TEXT NOT NULL DEFAULT 'user',
		headline TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		is_premium BOOLEAN NOT NULL DEFAULT FALSE,
		message_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS subscription_plans (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		price NUMERIC(10,2) NOT NULL,
		duration_months INT NOT NULL,
		max_conversations INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS user_subscriptions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		plan_id UUID NOT NULL REFERENCES subscription_plans(id),
		status TEXT NOT NULL DEFAULT 'pending',
		is_approved BOOLEAN NOT NULL DEFAULT FALSE,
		start_date TIMESTAMPTZ,
		end_date TIMESTAMPTZ,
		approved_by UUID,
		approved_at TIMESTAMPTZ,
		rejection_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		contact_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		last_message TEXT NOT NULL DEFAULT '',
		last_message_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		UNIQUE (user_id, contact_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages (sender_id, receiver_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS email_logs (
		id UUID PRIMARY KEY,
		service TEXT NOT NULL,
		recipient TEXT NOT NULL,
		subject TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_email_logs_service_month ON email_logs (service, created_at)`,
	`CREATE TABLE IF NOT EXISTS uploads (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL,
		kind TEXT NOT NULL,
		object_key TEXT NOT NULL,
		minio_url TEXT NOT NULL,
		size BIGINT NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (email, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS donation_causes (
		id UUID PRIMARY KEY,
		type TEXT NOT NULL,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		upi_id TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS donations (
		id UUID PRIMARY KEY,
		type TEXT NOT NULL,
		cause_id UUID NOT NULL REFERENCES donation_causes(id),
		amount NUMERIC(10,2) NOT NULL,
		donor_name TEXT NOT NULL,
		donor_email TEXT NOT NULL,
		donor_phone TEXT NOT NULL DEFAULT '',
		screenshot_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// seed inserts the static reference data: subscription plans and the
// donation cause listings. ON CONFLICT keeps reboots idempotent.
func seed(ctx context.Context, pool *pgxpool.Pool) error {
	plans := []struct {
		name             string
		price            float64
		durationMonths   int
		maxConversations int
	}{
		{"Monthly Premium", 299, 1, 0},
		{"Half-Yearly Premium", 1499, 6, 0},
		{"Yearly Premium", 2499, 12, 0},
	}
	for _, p := range plans {
		_, err := pool.Exec(ctx, `
			INSERT INTO subscription_plans (id, name, price, duration_months, max_conversations, is_active)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, TRUE)
			ON CONFLICT (name) DO NOTHING
		`, p.name, p.price, p.durationMonths, p.maxConversations)
		if err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", p.name, err)
		}
	}

	causes := []struct {
		typ, name, location, upi string
	}{
		{"orphan", "Sunrise Children's Home", "Hyderabad", "sunrise@upi"},
		{"orphan", "Little Steps Orphanage", "Pune", "littlesteps@upi"},
		{"old-age", "Evergreen Old Age Home", "Chennai", "evergreen@upi"},
		{"old-age", "Shanti Niwas", "Nagpur", "shantiniwas@upi"},
	}
	for _, c := range causes {
		_, err := pool.Exec(ctx, `
			INSERT INTO donation_causes (id, type, name, location, upi_id, is_active)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, TRUE)
			ON CONFLICT (name) DO NOTHING
		`, c.typ, c.name, c.location, c.upi)
		if err != nil {
			return fmt.Errorf("failed to seed cause %s: %w", c.name, err)
		}
	}
	return nil
}
