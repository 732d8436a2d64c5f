package consts

const (
	TrendingKey       = "mindshare:trending:"
	OAuthPKCEKey      = "oauth:pkce:"
	TokenBlacklistKey = "auth:blacklist:"
)

const (
	MindshareCollectLock = "lock:mindshare:collect"
)
