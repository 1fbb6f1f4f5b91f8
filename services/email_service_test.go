package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailjetProviderRequiresCredentials(t *testing.T) {
	p := NewMailjetProvider("noreply@example.com", "", "")

	err := p.SendEmail(context.Background(), "dev@example.com", "hello", "body")

	assert.Error(t, err)
}

func TestMockEmailProviderAlwaysSucceeds(t *testing.T) {
	p := &MockEmailProvider{}

	err := p.SendEmail(context.Background(), "dev@example.com", "hello", "body")

	assert.NoError(t, err)
}
