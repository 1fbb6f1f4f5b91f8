package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanOutCountsSuccesses(t *testing.T) {
	s := &BroadcastService{}
	batch := []Recipient{
		{UserID: "u1", Email: "u1@example.com"},
		{UserID: "u2", Email: "u2@example.com"},
		{UserID: "u3", Email: "u3@example.com"},
		{UserID: "u4", Email: "u4@example.com"},
	}

	var attempts int32
	sent := s.fanOut(context.Background(), batch, func(r Recipient) error {
		atomic.AddInt32(&attempts, 1)
		if r.UserID == "u2" {
			return errors.New("mailbox full")
		}
		return nil
	})

	assert.Equal(t, 3, sent)
	assert.Equal(t, int32(4), atomic.LoadInt32(&attempts))
}

func TestFanOutEmptyBatch(t *testing.T) {
	s := &BroadcastService{}

	sent := s.fanOut(context.Background(), nil, func(r Recipient) error {
		t.Fatal("send should not be called")
		return nil
	})

	assert.Equal(t, 0, sent)
}

func TestFanOutMoreRecipientsThanWorkers(t *testing.T) {
	s := &BroadcastService{}

	batch := make([]Recipient, 20)
	for i := range batch {
		batch[i] = Recipient{UserID: "u", Email: "u@example.com"}
	}

	sent := s.fanOut(context.Background(), batch, func(r Recipient) error {
		return nil
	})

	assert.Equal(t, 20, sent)
}
