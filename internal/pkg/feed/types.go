package feed

// Author 帖子作者
type Author struct {
	UserName  string `json:"userName"`
	Name      string `json:"name"`
	Followers int64  `json:"followers"`
}

// Tweet 帖子及其互动计数
type Tweet struct {
	ID            string `json:"id"`
	CreatedAt     string `json:"createdAt"`
	LikeCount     int64  `json:"likeCount"`
	RetweetCount  int64  `json:"retweetCount"`
	ReplyCount    int64  `json:"replyCount"`
	BookmarkCount int64  `json:"bookmarkCount"`
	QuoteCount    int64  `json:"quoteCount"`
	ViewCount     int64  `json:"viewCount"`
	Author        Author `json:"author"`
}

// Engagement 点赞+转发+回复+收藏+引用
func (t *Tweet) Engagement() int64 {
	return t.LikeCount + t.RetweetCount + t.ReplyCount + t.BookmarkCount + t.QuoteCount
}

// SearchPage 高级搜索的一页结果，Status/Msg 仅在接口报错时出现
type SearchPage struct {
	Tweets      []Tweet `json:"tweets"`
	HasNextPage bool    `json:"has_next_page"`
	NextCursor  string  `json:"next_cursor"`
	Status      string  `json:"status,omitempty"`
	Msg         string  `json:"msg,omitempty"`
}

// UserInfo 账号资料
type UserInfo struct {
	UserName       string `json:"userName"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
	Description    string `json:"description"`
	Followers      int64  `json:"followers"`
	IsBlueVerified bool   `json:"isBlueVerified"`
}

type userInfoResponse struct {
	Data   *UserInfo `json:"data"`
	Status string    `json:"status"`
	Msg    string    `json:"msg"`
}
