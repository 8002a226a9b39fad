package report

import "time"

// DefaultRolloverHour is the hour at which a business day rolls over.
// Sales rung up at 2am still belong to the previous evening.
const DefaultRolloverHour = 4

// DailyRefFor maps a point in time to the business day it belongs to,
// encoded as YYYYMMDD. Times before the rollover hour count toward the
// previous calendar day.
func DailyRefFor(t time.Time, rolloverHour int) int64 {
	shifted := t.Add(-time.Duration(rolloverHour) * time.Hour)
	y, m, d := shifted.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}

// DayCloseTime is the instant the business day of the given reference ends,
// which doubles as the report's close deadline.
func DayCloseTime(dailyRef int64, rolloverHour int, loc *time.Location) time.Time {
	y := int(dailyRef / 10000)
	m := time.Month(dailyRef / 100 % 100)
	d := int(dailyRef % 100)
	return time.Date(y, m, d, rolloverHour, 0, 0, 0, loc).AddDate(0, 0, 1)
}

// MonthRefOf collapses a daily reference to its month, encoded as YYYYMM
func MonthRefOf(dailyRef int64) int64 {
	return dailyRef / 100
}

// DailyRefsOfMonth enumerates every daily reference inside a month
func DailyRefsOfMonth(monthRef int64) []int64 {
	y := int(monthRef / 100)
	m := time.Month(monthRef % 100)
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	out := make([]int64, 0, days)
	for d := 1; d <= days; d++ {
		out = append(out, monthRef*100+int64(d))
	}
	return out
}
