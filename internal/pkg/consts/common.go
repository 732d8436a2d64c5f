package consts

const (
	Timeframe24h = "24h"
	Timeframe7d  = "7d"
)

const (
	SortFollowers       = "followers"
	SortMindshareScore  = "mindshareScore"
	SortMindshareChange = "mindshareChange"
	SortLaunchDate      = "launchDate"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// 零值排末尾策略
const (
	ZeroLastNumeric   = "numeric"
	ZeroLastMindshare = "mindshare"
	ZeroLastNone      = "none"
)

const (
	HandleKey = "handle"
)

const (
	TokenKey = "token"
)
