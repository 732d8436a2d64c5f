package dto

import "time"

// ListingDTO 排行榜中的一行
type ListingDTO struct {
	TwitterUsername  string       `json:"twitterUsername"`
	ScreenName       string       `json:"screenName"`
	ProfileImageURL  string       `json:"profileImageUrl"`
	Bio              string       `json:"bio"`
	Followers        int64        `json:"followers"`
	Category         string       `json:"category"`
	LaunchDate       *time.Time   `json:"launchDate"`
	TelegramUserName string       `json:"telegramUserName"`
	Description      string       `json:"description"`
	Platform         string       `json:"platform,omitempty"`
	Website          string       `json:"website,omitempty"`
	Mindshare        MindshareDTO `json:"mindshare"`
	EngagementRate   float64      `json:"engagementRate"`
	ViewsCount       int64        `json:"viewsCount"`
	TweetCount       int          `json:"tweetCount"`
}

type PaginationDTO struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

// ListingPageDTO 分页结果
type ListingPageDTO struct {
	Listings   []*ListingDTO `json:"listings"`
	Pagination PaginationDTO `json:"pagination"`
}

// RankQueryDTO 排行榜查询参数，原样接收后由服务层校验
type RankQueryDTO struct {
	SortField string `form:"sortField"`
	SortOrder string `form:"sortOrder"`
	Page      string `form:"page"`
	Query     string `form:"q"`
}

// CreateListingDTO 提交项目
type CreateListingDTO struct {
	TwitterUsername  string `json:"twitterUsername" validate:"required,max=50"`
	Category         string `json:"category" validate:"required,oneof=meme utility"`
	LaunchDate       string `json:"launchDate" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	TelegramUserName string `json:"telegramUserName" validate:"required,max=64"`
	Description      string `json:"description" validate:"required,max=2000"`
	Platform         string `json:"platform" validate:"omitempty,max=64"`
	Website          string `json:"website" validate:"omitempty,url"`
}

// UpdateLaunchDateDTO 修改上线日期
type UpdateLaunchDateDTO struct {
	LaunchDate string `json:"launchDate" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type CountDTO struct {
	Count int64 `json:"count"`
}
