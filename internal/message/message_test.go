package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotAllowed(t *testing.T) {
	tests := []struct {
		name            string
		existingPartner bool
		isPremium       bool
		currentChats    int
		want            bool
	}{
		{"free user under cap", false, false, 0, true},
		{"free user one below cap", false, false, 4, true},
		{"free user at cap", false, false, 5, false},
		{"free user over cap", false, false, 7, false},
		{"existing partner never consumes a slot", true, false, 5, true},
		{"premium user is unbounded", false, true, 50, true},
		{"premium existing partner", true, true, 50, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotAllowed(tt.existingPartner, tt.isPremium, tt.currentChats))
		})
	}
}
