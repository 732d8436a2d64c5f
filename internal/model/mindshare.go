package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MindShare 一次采集周期的互动快照，只追加不修改
// 只保存原始聚合值，窗口分数与涨跌幅在读取时计算
type MindShare struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TwitterUsername string             `bson:"twitterUsername" json:"twitterUsername"`
	Date            time.Time          `bson:"date" json:"date"`
	EngagementCount int64              `bson:"engagementCount" json:"engagementCount"` // 点赞+转发+回复+收藏+引用
	ViewsCount      int64              `bson:"viewsCount" json:"viewsCount"`
	TweetCount      int                `bson:"tweetCount" json:"tweetCount"`
}
