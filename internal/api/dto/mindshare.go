package dto

// WindowDTO 单个时间窗口的分数与涨跌幅 (百分比，保留两位小数)
type WindowDTO struct {
	Score  float64 `json:"score"`
	Change float64 `json:"change"`
}

// MindshareDTO 24h / 7d 窗口指标
type MindshareDTO struct {
	H24 WindowDTO `json:"24h"`
	D7  WindowDTO `json:"7d"`
}

// ListingMindshareDTO 单个项目的窗口指标
type ListingMindshareDTO struct {
	TwitterUsername string       `json:"twitterUsername"`
	Mindshare       MindshareDTO `json:"mindshare"`
	EngagementRate  float64      `json:"engagementRate"`
	ViewsCount      int64        `json:"viewsCount"`
	TweetCount      int          `json:"tweetCount"`
	Snapshots       int          `json:"snapshots"`
}

// TrendingDTO 热门项目
type TrendingDTO struct {
	Name       string  `json:"name"`
	Avatar     string  `json:"avatar"`
	Percentage float64 `json:"percentage"`
}

// CollectReportDTO 一次采集批次的结果
type CollectReportDTO struct {
	Deactivated int64 `json:"deactivated"`
	Processed   int   `json:"processed"`
	Recorded    int   `json:"recorded"`
	NoActivity  int   `json:"noActivity"`
	Failed      int   `json:"failed"`
}
