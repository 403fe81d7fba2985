package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevoked(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 12, 0, 30, 0, time.UTC)

	tests := []struct {
		name              string
		issuedAt          time.Time
		passwordChangedAt *time.Time
		want              bool
	}{
		{
			name:              "never changed password accepts any token",
			issuedAt:          now.Add(-24 * time.Hour),
			passwordChangedAt: nil,
			want:              false,
		},
		{
			name:              "token issued before change is revoked",
			issuedAt:          now.Add(-time.Minute),
			passwordChangedAt: &now,
			want:              true,
		},
		{
			name:              "token issued after change is accepted",
			issuedAt:          now.Add(time.Minute),
			passwordChangedAt: &now,
			want:              false,
		},
		{
			name:              "same second as change is accepted",
			issuedAt:          now,
			passwordChangedAt: &now,
			want:              false,
		},
		{
			name:     "sub-second difference within the same second is accepted",
			issuedAt: now,
			passwordChangedAt: func() *time.Time {
				pc := now.Add(500 * time.Millisecond)
				return &pc
			}(),
			want: false,
		},
		{
			name:     "one second before change is revoked",
			issuedAt: now.Add(-time.Second),
			passwordChangedAt: func() *time.Time {
				pc := now.Add(900 * time.Millisecond)
				return &pc
			}(),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Revoked(tt.issuedAt, tt.passwordChangedAt))
		})
	}
}
