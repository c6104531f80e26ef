package store

import (
	"context"

	"todo-reminder/model"
)

// Reorder 把 draggedID 放到 targetID 旁边。
// 向下拖动时放在目标之后，否则放在目标之前；两个下标都按当前顺序计算。
func (l *TaskList) Reorder(ctx context.Context, draggedID, targetID string) error {
	if draggedID == targetID {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshLocked(ctx); err != nil {
		return err
	}

	from := l.indexLocked(draggedID)
	to := l.indexLocked(targetID)
	if from < 0 || to < 0 {
		return ErrNotFound
	}

	return l.commitLocked(ctx, moveTask(l.tasks, from, to))
}

// MoveToEnd 把任务移到列表末尾
func (l *TaskList) MoveToEnd(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshLocked(ctx); err != nil {
		return err
	}

	from := l.indexLocked(id)
	if from < 0 {
		return ErrNotFound
	}
	if from == len(l.tasks)-1 {
		return nil
	}

	next := make([]model.Task, 0, len(l.tasks))
	next = append(next, l.tasks[:from]...)
	next = append(next, l.tasks[from+1:]...)
	next = append(next, l.tasks[from])
	return l.commitLocked(ctx, next)
}

// moveTask 返回把 from 处的任务放到 to 处任务旁边后的新列表
func moveTask(tasks []model.Task, from, to int) []model.Task {
	dragged := tasks[from]

	rest := make([]model.Task, 0, len(tasks)-1)
	rest = append(rest, tasks[:from]...)
	rest = append(rest, tasks[from+1:]...)

	// 目标在移除 dragged 后的位置
	target := to
	if from < to {
		target = to - 1
	}

	insertAt := target
	if from < to {
		insertAt = target + 1
	}

	next := make([]model.Task, 0, len(tasks))
	next = append(next, rest[:insertAt]...)
	next = append(next, dragged)
	next = append(next, rest[insertAt:]...)
	return next
}
