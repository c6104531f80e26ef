package reminder

import (
	"fmt"
	"time"
)

// TimesUp 到期后的显示文本
const TimesUp = "Time's up!"

// Remaining 剩余时间的分解
type Remaining struct {
	Overdue bool
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// Countdown 计算 due - now 并按天/时/分/秒向下取整分解。
// 差值小于等于 0 时返回 Overdue，不会出现负数；不足一秒时仍显示 0 秒。
func Countdown(due, now time.Time) Remaining {
	diff := due.Sub(now)
	if diff <= 0 {
		return Remaining{Overdue: true}
	}

	secs := int64(diff / time.Second)

	return Remaining{
		Days:    secs / 86400,
		Hours:   secs % 86400 / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

// String 天数大于 0 时省略秒
func (r Remaining) String() string {
	if r.Overdue {
		return TimesUp
	}
	if r.Days > 0 {
		return fmt.Sprintf("%dd %dh %dm", r.Days, r.Hours, r.Minutes)
	}
	return fmt.Sprintf("%dh %dm %ds", r.Hours, r.Minutes, r.Seconds)
}
