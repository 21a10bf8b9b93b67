package localstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "0s ago"},
		{-5 * time.Second, "0s ago"},
		{59 * time.Second, "59s ago"},
		{time.Minute, "1m ago"},
		{59 * time.Minute, "59m ago"},
		{3 * time.Hour, "3h ago"},
		{6 * 24 * time.Hour, "6d ago"},
		{8 * 24 * time.Hour, "2024-03-02"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ms := now.Add(-tt.ago).UnixMilli()
			assert.Equal(t, tt.want, TimeAgo(ms, now))
		})
	}
}
