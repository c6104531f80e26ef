package store

import "time"

// Stats 统计信息
type Stats struct {
	Total     int `json:"total"`     // 总数量
	Pending   int `json:"pending"`   // 未完成
	Completed int `json:"completed"` // 已完成
	Overdue   int `json:"overdue"`   // 已逾期
	Today     int `json:"today"`     // 今天到期
	ThisWeek  int `json:"this_week"` // 七天内到期
}

// Stats 按 now 计算统计信息，逾期和到期统计只计算未完成的任务
func (l *TaskList) Stats(now time.Time) Stats {
	tasks := l.Snapshot()

	today := dayStart(now)
	weekEnd := today.AddDate(0, 0, 8)

	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			continue
		}
		s.Pending++

		if t.DueAt == nil {
			continue
		}
		due := t.DueAt.In(now.Location())
		if !due.After(now) {
			s.Overdue++
		}
		if sameDay(due, now) {
			s.Today++
		}
		if !due.Before(today) && due.Before(weekEnd) {
			s.ThisWeek++
		}
	}
	return s
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
