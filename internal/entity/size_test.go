package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeRequestFields(t *testing.T) {
	tests := []struct {
		name     string
		req      SizeRequest
		expected map[string]interface{}
	}{
		{
			name:     "with multiplier",
			req:      SizeRequest{Width: 1024, Height: 576, Multiplier: 1.5},
			expected: map[string]interface{}{"width": 1024, "height": 576, "multiplier": 1.5},
		},
		{
			name:     "zero multiplier left to the default",
			req:      SizeRequest{Width: 800, Height: 600},
			expected: map[string]interface{}{"width": 800, "height": 600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.req.Fields())
		})
	}
}
