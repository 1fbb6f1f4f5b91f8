package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"github.com/prometheus/client_golang/prometheus"

	"skillConnectAPI/internal/notification"
	"skillConnectAPI/internal/quota"
)

// EmailProvider abstracts the outbound mail API so the dispatcher and
// tests can swap the real client for a mock.
type EmailProvider interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// MailjetProvider sends through the MailJet transactional API.
type MailjetProvider struct {
	sender     string
	publicKey  string
	privateKey string
}

func NewMailjetProvider(sender, publicKey, privateKey string) *MailjetProvider {
	return &MailjetProvider{sender: sender, publicKey: publicKey, privateKey: privateKey}
}

func (p *MailjetProvider) SendEmail(ctx context.Context, to, subject, body string) error {
	if p.publicKey == "" || p.privateKey == "" {
		return fmt.Errorf("mailjet credentials not configured")
	}

	clt := mailjet.NewMailjetClient(p.publicKey, p.privateKey)
	info := []mailjet.InfoMessagesV31{{
		From:     &mailjet.RecipientV31{Email: p.sender},
		To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: to}},
		Subject:  subject,
		TextPart: body,
	}}

	msgs := mailjet.MessagesV31{Info: info}
	_, err := clt.SendMailV31(&msgs)
	if err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}
	return nil
}

// MockEmailProvider is used in tests and when no credentials are set.
type MockEmailProvider struct{}

func (m *MockEmailProvider) SendEmail(ctx context.Context, to, subject, body string) error {
	log.Printf("MOCK EMAIL: To %s, Subject: %s", to, subject)
	return nil
}

var emailsAttempted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "emails_attempted_total",
		Help: "Outbound email attempts by outcome",
	},
	[]string{"status"},
)

// InitEmailMetrics registers the email counters. Call from main.go.
func InitEmailMetrics() {
	prometheus.MustRegister(emailsAttempted)
}

// EmailService owns the quota ledger. Every attempted send, success or
// failure, writes one email_logs row, so counting rows is counting
// attempts. Failed sends therefore consume quota, which keeps a flaky
// provider from turning into a retry storm.
type EmailService struct {
	db          *pgxpool.Pool
	provider    EmailProvider
	serviceName string
	monthlyCap  int
}

func NewEmailService(db *pgxpool.Pool, provider EmailProvider, serviceName string, monthlyCap int) *EmailService {
	if monthlyCap <= 0 {
		monthlyCap = quota.DefaultMonthlyLimit
	}
	return &EmailService{db: db, provider: provider, serviceName: serviceName, monthlyCap: monthlyCap}
}

// Remaining reports how many sends the ledger still allows this
// calendar month.
func (s *EmailService) Remaining(ctx context.Context) (int, error) {
	start, end := quota.MonthWindow(time.Now())

	var used int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM email_logs
		WHERE service = $1 AND created_at >= $2 AND created_at < $3
	`, s.serviceName, start, end).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("failed to count email log: %w", err)
	}

	return quota.Remaining(s.monthlyCap, used), nil
}

// SendLogged attempts one send and records the attempt. The returned
// error reflects the provider outcome; the ledger row is written
// either way.
func (s *EmailService) SendLogged(ctx context.Context, to, subject, body string) error {
	sendErr := s.provider.SendEmail(ctx, to, subject, body)

	status := notification.EmailStatusSent
	errText := ""
	if sendErr != nil {
		status = notification.EmailStatusFailed
		errText = sendErr.Error()
	}
	emailsAttempted.WithLabelValues(status).Inc()

	_, logErr := s.db.Exec(ctx, `
		INSERT INTO email_logs (id, service, recipient, subject, status, error)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New().String(), s.serviceName, to, subject, status, errText)
	if logErr != nil {
		log.Printf("EmailService: failed to log email attempt to %s: %v", to, logErr)
	}

	return sendErr
}
