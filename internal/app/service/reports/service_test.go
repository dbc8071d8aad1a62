package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowthPct(t *testing.T) {
	tests := []struct {
		name   string
		total  int64
		recent int64
		want   float64
	}{
		{name: "empty community", total: 0, recent: 0, want: 0},
		{name: "fifth of members are new", total: 50, recent: 10, want: 20},
		{name: "all members are new", total: 10, recent: 10, want: 100},
		{name: "rounds to nearest", total: 3, recent: 1, want: 33},
		{name: "rounds half up", total: 8, recent: 1, want: 13},
		{name: "no recent activity", total: 100, recent: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GrowthPct(tt.total, tt.recent))
		})
	}
}
