package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMindshareScore(t *testing.T) {
	tests := []struct {
		name       string
		engagement int64
		views      int64
		want       float64
	}{
		{"ratio as percentage", 300, 1000, 30},
		{"zero views", 500, 0, 0},
		{"zero engagement", 0, 1000, 0},
		{"both zero", 0, 0, 0},
		{"engagement above views", 50, 10, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MindshareScore(tt.engagement, tt.views), 1e-9)
		})
	}
}

func TestMindshareScoreNeverNegativeOrNaN(t *testing.T) {
	for _, e := range []int64{0, 1, 7, 1 << 40} {
		for _, v := range []int64{0, 1, 3, 1 << 40} {
			s := MindshareScore(e, v)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.False(t, math.IsNaN(s) || math.IsInf(s, 0))
			if v == 0 {
				assert.Zero(t, s)
			}
		}
	}
}

func TestEngagementRate(t *testing.T) {
	assert.InDelta(t, 20.0, EngagementRate(300, 15), 1e-9)
	assert.Zero(t, EngagementRate(300, 0))
	assert.Zero(t, EngagementRate(0, 10))
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 50.0, percentChange(30, 20), 1e-9)
	assert.InDelta(t, -50.0, percentChange(10, 20), 1e-9)
	assert.Zero(t, percentChange(10, 0))
	assert.Zero(t, percentChange(0, 0))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, round2(100.0/3))
	assert.Equal(t, 66.67, round2(200.0/3))
	assert.Equal(t, 0.0, round2(0.001))
}
