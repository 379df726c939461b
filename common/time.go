package common

import (
	"time"
)

// UnixMills the unix timestamp of t in milliseconds
func UnixMills(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

// UnixMillsTime the time of the unix timestamp tmillis in milliseconds
func UnixMillsTime(tmillis int64) time.Time {
	return time.Unix(tmillis/1000, (tmillis%1000)*int64(time.Millisecond))
}
