package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"3f2504e0-4f89-11d3-9a0c-0305e82c3301", testUser, false},
		{"  3F2504E0-4F89-11D3-9A0C-0305E82C3301 ", testUser, false},
		{"{3f2504e0-4f89-11d3-9a0c-0305e82c3301}", testUser, false},
		{"urn:uuid:3f2504e0-4f89-11d3-9a0c-0305e82c3301", testUser, false},
		{"3f2504e04f8911d39a0c0305e82c3301", testUser, false},
		{"alice@example.com", "alice@example.com", false},
		{"trader_01", "trader_01", false},
		{"", "", true},
		{"   ", "", true},
		{"../etc/passwd", "", true},
		{"two words", "", true},
	}

	for _, tt := range tests {
		got, err := ParseUserID(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			assert.ErrorIs(t, err, ErrInvalidUserID)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
