package service

import (
	"math"

	"github.com/kevinpauljacob/cal/internal/model"
)

// MindshareScore 互动量占浏览量的百分比，浏览量为 0 时为 0
func MindshareScore(totalEngagement, totalViews int64) float64 {
	if totalViews <= 0 || totalEngagement <= 0 {
		return 0
	}
	return float64(totalEngagement) / float64(totalViews) * 100
}

// EngagementRate 平均每条帖子的互动量
func EngagementRate(totalEngagement int64, postCount int) float64 {
	if postCount <= 0 || totalEngagement <= 0 {
		return 0
	}
	return float64(totalEngagement) / float64(postCount)
}

func snapshotScore(s *model.MindShare) float64 {
	return MindshareScore(s.EngagementCount, s.ViewsCount)
}

// percentChange 分母为 0 时返回 0
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	change := (current - previous) / previous * 100
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return 0
	}
	return change
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
