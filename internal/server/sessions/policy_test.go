package sessions

import (
	"testing"

	"github.com/mkarpovich/authkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record *models.Token
		status TokenStatus
		want   Action
	}{
		{
			name:   "no record issues fresh token",
			record: nil,
			want:   ActionIssue,
		},
		{
			name:   "expired with uses left is reused",
			record: &models.Token{Token: "t", Uses: 50},
			status: StatusExpired,
			want:   ActionReuse,
		},
		{
			name:   "expired with one use left is still reused",
			record: &models.Token{Token: "t", Uses: 1},
			status: StatusExpired,
			want:   ActionReuse,
		},
		{
			name:   "expired but exhausted forces reissue",
			record: &models.Token{Token: "t", Uses: 0},
			status: StatusExpired,
			want:   ActionReissue,
		},
		{
			name:   "valid token forces reissue regardless of uses",
			record: &models.Token{Token: "t", Uses: 50},
			status: StatusValid,
			want:   ActionReissue,
		},
		{
			name:   "undecodable token forces reissue",
			record: &models.Token{Token: "garbage", Uses: 50},
			status: StatusInvalid,
			want:   ActionReissue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.record, tt.status))
		})
	}
}
