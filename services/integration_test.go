package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/database"
	"skillConnectAPI/internal/notification"
	"skillConnectAPI/internal/subscription"
	"skillConnectAPI/internal/user"
)

// setupTestDB connects to the database named by DATABASE_URL and runs
// migrations. Tests that need it are skipped when the variable is not
// set so the suite still passes on machines without Postgres.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))

	t.Cleanup(db.Close)
	return db
}

func testSignupRequest() *user.SignupRequest {
	return &user.SignupRequest{
		Email:    fmt.Sprintf("test-%s@example.com", uuid.New().String()),
		Password: "secret123",
		FullName: "Test User",
		Status:   "employed",
	}
}

func TestSignupAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	t.Setenv("JWT_SECRET", "integration-test-secret")

	req := testSignupRequest()
	u, err := svc.Signup(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, req.Email, u.Email)
	assert.False(t, u.IsPremium)

	token, logged, err := svc.Login(ctx, &user.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, logged.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	req := testSignupRequest()
	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDuplicate, apperr.From(err).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	req := testSignupRequest()
	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, &user.LoginRequest{
		Email:    req.Email,
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.From(err).Code)
}

func TestGetPlansSeeded(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubscriptionService(db)

	plans, err := svc.GetPlans(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(plans), 3)
}

// Walks request -> approve -> cancel and checks the premium flag stays
// consistent with the subscription rows at every step.
func TestSubscriptionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db)
	subs := NewSubscriptionService(db)
	ctx := context.Background()

	u, err := auth.Signup(ctx, testSignupRequest())
	require.NoError(t, err)

	plans, err := subs.GetPlans(ctx)
	require.NoError(t, err)
	var yearly *subscription.Plan
	for _, p := range plans {
		if p.DurationMonths == 12 {
			yearly = p
		}
	}
	require.NotNil(t, yearly, "seeded yearly plan missing")

	sub, qr, err := subs.RequestSubscription(ctx, &subscription.RequestSubscription{
		UserID: u.ID,
		PlanID: yearly.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusPending, sub.Status)
	assert.NotEmpty(t, qr)

	// An unapproved pending request does not block a second request.
	second, _, err := subs.RequestSubscription(ctx, &subscription.RequestSubscription{
		UserID: u.ID,
		PlanID: yearly.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, sub.ID, second.ID)

	adminID := uuid.New().String()
	email, approved, err := subs.Approve(ctx, sub.ID, adminID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, email)
	assert.Equal(t, subscription.StatusActive, approved.Status)
	require.NotNil(t, approved.StartDate)
	require.NotNil(t, approved.EndDate)
	assert.Equal(t, approved.StartDate.AddDate(0, 12, 0), *approved.EndDate)

	// Now that an approved subscription exists, further requests are
	// rejected with the historical 400.
	_, _, err = subs.RequestSubscription(ctx, &subscription.RequestSubscription{
		UserID: u.ID,
		PlanID: yearly.ID,
	})
	require.Error(t, err)
	appErr := apperr.From(err)
	assert.Equal(t, apperr.CodeDuplicate, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	isPremium, current, err := subs.CheckPremium(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, isPremium)
	require.NotNil(t, current)
	assert.Equal(t, sub.ID, current.ID)

	require.NoError(t, subs.Cancel(ctx, u.ID))

	isPremium, current, err = subs.CheckPremium(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, isPremium)
	assert.Nil(t, current)
}

// With the monthly ledger already at its ceiling a broadcast must
// return sent:0 total:0 without error and without attempting a send.
func TestBroadcastFailFastAtQuotaCeiling(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	serviceName := fmt.Sprintf("test-%s", uuid.New().String())
	email := NewEmailService(db, &MockEmailProvider{}, serviceName, 2)
	bcast := NewBroadcastService(db, email, 300)

	require.NoError(t, email.SendLogged(ctx, "a@example.com", "s", "b"))
	require.NoError(t, email.SendLogged(ctx, "b@example.com", "s", "b"))

	remaining, err := email.Remaining(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)

	result, err := bcast.Broadcast(ctx, &notification.BroadcastRequest{
		AdminID: uuid.New().String(),
		Title:   "Maintenance window",
		Content: "Short downtime tonight",
		Status:  "all",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 0, result.Total)
}
