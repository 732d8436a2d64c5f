package feed

import "fmt"

const QueryTypeLatest = "Latest"

// MentionQuery 账号本人发帖或他人提及该账号，限定时间窗口，排除转推
func MentionQuery(handle string, lookbackHours int) string {
	return fmt.Sprintf(
		"(from:%[1]s OR (@%[1]s -from:%[1]s)) within_time:%[2]dh -filter:retweets (filter:self_threads OR -filter:replies)",
		handle, lookbackHours,
	)
}
