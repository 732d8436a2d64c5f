package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryMeme    = "meme"
	CategoryUtility = "utility"
)

// Listing 上线项目，以社交平台账号唯一标识
type Listing struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TwitterUsername  string             `bson:"twitterUsername" json:"twitterUsername"` // 唯一索引
	ScreenName       string             `bson:"screenName" json:"screenName"`
	ProfileImageURL  string             `bson:"profileImageUrl" json:"profileImageUrl"`
	Bio              string             `bson:"bio" json:"bio"`
	Followers        int64              `bson:"followers" json:"followers"` // 由采集任务刷新
	Category         string             `bson:"category" json:"category"`   // meme | utility
	LaunchDate       *time.Time         `bson:"launchDate,omitempty" json:"launchDate,omitempty"`
	TelegramUserName string             `bson:"telegramUserName" json:"telegramUserName"`
	Description      string             `bson:"description" json:"description"`
	Platform         string             `bson:"platform,omitempty" json:"platform,omitempty"`
	Website          string             `bson:"website,omitempty" json:"website,omitempty"`
	CreatedBy        string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"` // 提交者账号
	Active           bool               `bson:"active" json:"active"`                           // 上线日期过后置为 false
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	LastUpdated      time.Time          `bson:"lastUpdated" json:"lastUpdated"`
}
