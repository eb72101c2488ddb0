package domain

import "time"

// InBirthdayWindow 判断联系人生日（只看月/日，忽略出生年份）是否落在
// [today, today+days] 闭区间内。
//
// 对每个联系人构造两个候选日期：生日月/日配 today 的年份，以及配 today+1 的年份；
// 任一候选落在窗口内即命中。第二个候选覆盖跨年场景（如 today=12-28、days=10 时
// 1月初的生日）。
//
// 闰日策略：2月29日在非闰年规范化为3月1日（time.Date 的自然归一化，与 SQL 端
// make_date(y, m, 1) + (day-1) 的写法一致）。
func InBirthdayWindow(birthday Date, today time.Time, days int) bool {
	if days < 0 {
		return false
	}
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days)

	for _, year := range []int{start.Year(), start.Year() + 1} {
		candidate := time.Date(year, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
		if !candidate.Before(start) && !candidate.After(end) {
			return true
		}
	}
	return false
}
