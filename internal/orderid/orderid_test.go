package orderid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoundTrip(t *testing.T) {
	orderID := Build("42")
	assert.True(t, strings.HasPrefix(orderID, "order_42_"))

	id, err := ParseContributionID(orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParseContributionID(t *testing.T) {
	tests := []struct {
		name    string
		orderID string
		want    int64
		wantErr bool
	}{
		{"valid", "order_42_1700000000000", 42, false},
		{"valid large id", "order_9223372036854775807_1", 9223372036854775807, false},
		{"wrong prefix", "bad_format", 0, true},
		{"empty", "", 0, true},
		{"missing suffix", "order_12", 0, true},
		{"empty id segment", "order__1700000000000", 0, true},
		{"empty suffix", "order_12_", 0, true},
		{"non-numeric id", "order_abc_1700000000000", 0, true},
		{"signed id", "order_+5_1700000000000", 0, true},
		{"overflow", "order_99999999999999999999_1700000000000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseContributionID(tt.orderID)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
