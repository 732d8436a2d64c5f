package dto

type AuthURLDTO struct {
	AuthURL string `json:"authUrl"`
}

// LoginResultDTO OAuth 回调完成后的登录结果
type LoginResultDTO struct {
	Handle   string `json:"handle"`
	Token    string `json:"token"`
	Redirect string `json:"redirect"`
}
