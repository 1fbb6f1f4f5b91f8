package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/donation"
)

type DonationService struct {
	db *pgxpool.Pool
}

func NewDonationService(db *pgxpool.Pool) *DonationService {
	return &DonationService{db: db}
}

func (s *DonationService) GetCauses(ctx context.Context, causeType string) ([]*donation.Cause, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, type, name, description, location, image_url, upi_id, is_active
		FROM donation_causes
		WHERE type = $1 AND is_active = TRUE
		ORDER BY name ASC
	`, causeType)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch causes: %w", err)
	}
	defer rows.Close()

	var causes []*donation.Cause
	for rows.Next() {
		c := &donation.Cause{}
		err := rows.Scan(&c.ID, &c.Type, &c.Name, &c.Description, &c.Location, &c.ImageURL, &c.UPIID, &c.IsActive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cause: %w", err)
		}
		causes = append(causes, c)
	}
	return causes, nil
}

func (s *DonationService) Donate(ctx context.Context, req *donation.DonateRequest) (*donation.Donation, error) {
	var causeExists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM donation_causes WHERE id = $1 AND type = $2 AND is_active = TRUE)
	`, req.CauseID, req.Type).Scan(&causeExists)
	if err != nil {
		return nil, fmt.Errorf("failed to check cause: %w", err)
	}
	if !causeExists {
		return nil, apperr.NotFound("Donation cause not found")
	}

	d := &donation.Donation{
		ID:            uuid.New().String(),
		Type:          req.Type,
		CauseID:       req.CauseID,
		Amount:        req.Amount,
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		DonorPhone:    req.DonorPhone,
		ScreenshotURL: req.ScreenshotURL,
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO donations (id, type, cause_id, amount, donor_name, donor_email, donor_phone, screenshot_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, d.ID, d.Type, d.CauseID, d.Amount, d.DonorName, d.DonorEmail, d.DonorPhone, d.ScreenshotURL).Scan(&d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}

	return d, nil
}
