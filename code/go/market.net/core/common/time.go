package common

import (
	"time"
)

//DateTimeFormat - the format in which the date time fields should be displayed in the UI
var DateTimeFormat = "2006-01-02T15:04:05+00:00"

/*Timestamp - just a wrapper to control the json encoding */
type Timestamp int64

var nowFunc = func() Timestamp {
	return Timestamp(time.Now().Unix())
}

/*Now - current datetime */
func Now() Timestamp {
	return nowFunc()
}

// SetNowFunc replaces the clock source and returns a restore function.
// Lease-end checks compare against Now(), so tests advance time through
// this instead of sleeping.
func SetNowFunc(f func() Timestamp) func() {
	prev := nowFunc
	nowFunc = f
	return func() { nowFunc = prev }
}

//ToTime - converts the common.Timestamp to time.Time
func ToTime(ts Timestamp) time.Time {
	return time.Unix(int64(ts), 0)
}
